package verify

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

// ChangeKind says what a correction did to the written tree.
type ChangeKind int

const (
	// ChangeSuggested filled in an unset option with a suggested value.
	ChangeSuggested ChangeKind = iota
	// ChangeRequired overwrote an option with its required value.
	ChangeRequired
	// ChangeRemoved deleted an option that must not be set.
	ChangeRemoved
	// ChangeInclude set include to the source directory.
	ChangeInclude
)

// String implements fmt.Stringer.
func (k ChangeKind) String() string {
	switch k {
	case ChangeSuggested:
		return "suggested"
	case ChangeRequired:
		return "required"
	case ChangeRemoved:
		return "removed"
	case ChangeInclude:
		return "include"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change is one correction applied during a run.
type Change struct {
	// Option is the compiler option name, empty for ChangeInclude.
	Option string
	Kind   ChangeKind
	// Value is the value written, nil for ChangeRemoved.
	Value  any
	Reason string
}

// Path is the dotted location of the change in the configuration file.
func (c Change) Path() string {
	if c.Kind == ChangeInclude {
		return tsconfig.KeyInclude
	}
	return tsconfig.KeyCompilerOptions + "." + c.Option
}

// String renders the change as one line of plain text.
func (c Change) String() string {
	var line string
	switch c.Kind {
	case ChangeSuggested:
		line = fmt.Sprintf("%s to be suggested value: %s (this can be changed)", c.Path(), FormatValue(c.Value))
	case ChangeRequired:
		line = fmt.Sprintf("%s must be %s", c.Path(), FormatValue(c.Value))
	case ChangeRemoved:
		line = c.Path() + " must not be set"
	case ChangeInclude:
		return fmt.Sprintf("%s should be %s", c.Path(), FormatValue(c.Value))
	}
	if c.Reason != "" && c.Kind != ChangeSuggested {
		line += " (" + c.Reason + ")"
	}
	return line
}

// FormatValue renders an option value the way it is shown to users: lists
// are joined with commas, everything else is printed as is.
func FormatValue(v any) string {
	switch x := v.(type) {
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}

// ChangeLog is the ordered list of corrections made in one run.
type ChangeLog []Change

// Empty reports whether nothing was changed.
func (l ChangeLog) Empty() bool {
	return len(l) == 0
}

// Strings renders every change with String.
func (l ChangeLog) Strings() []string {
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = c.String()
	}
	return out
}
