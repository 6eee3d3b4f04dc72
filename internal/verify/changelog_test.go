package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChange_String(t *testing.T) {
	tests := []struct {
		change Change
		want   string
	}{
		{
			change: Change{Option: "lib", Kind: ChangeSuggested, Value: []any{"dom", "dom.iterable", "esnext"}},
			want:   "compilerOptions.lib to be suggested value: dom,dom.iterable,esnext (this can be changed)",
		},
		{
			change: Change{Option: "allowJs", Kind: ChangeSuggested, Value: true},
			want:   "compilerOptions.allowJs to be suggested value: true (this can be changed)",
		},
		{
			change: Change{Option: "jsx", Kind: ChangeRequired, Value: "preserve", Reason: "JSX is compiled by Babel"},
			want:   "compilerOptions.jsx must be preserve (JSX is compiled by Babel)",
		},
		{
			change: Change{Option: "noEmit", Kind: ChangeRequired, Value: true},
			want:   "compilerOptions.noEmit must be true",
		},
		{
			change: Change{Option: "paths", Kind: ChangeRemoved},
			want:   "compilerOptions.paths must not be set",
		},
		{
			change: Change{Kind: ChangeInclude, Value: "src"},
			want:   "include should be src",
		},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.change.String())
		})
	}
}

func TestAbortError(t *testing.T) {
	err := &AbortError{Kind: AbortIO, Message: "Could not write tsconfig.json: denied"}
	assert.Equal(t, "Could not write tsconfig.json: denied", err.Error())
	assert.Equal(t, "io", err.Kind.String())
}
