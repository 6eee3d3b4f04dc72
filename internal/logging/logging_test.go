package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, WarnLevel, cfg.Level)
	assert.Equal(t, os.Stderr, cfg.Output)
	assert.False(t, cfg.Pretty)
}

func TestFromFlags(t *testing.T) {
	var buf bytes.Buffer

	cfg := FromFlags(false, "DEBUG", &buf)
	assert.Equal(t, Disabled, cfg.Level)
	assert.False(t, cfg.Pretty)

	cfg = FromFlags(true, "debug", &buf)
	assert.Equal(t, DebugLevel, cfg.Level)
	assert.True(t, cfg.Pretty)
	assert.Same(t, &buf, cfg.Output)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"  debug  ", DebugLevel},
		{"INFO", InfoLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"off", Disabled},
		{"unknown", WarnLevel},
		{"", WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: InfoLevel, Output: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Str("option", "module").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"option":"module"`)
}

func TestForRun(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, Output: &buf})
	defer Init(DefaultConfig())

	runLogger := ForRun("01HX")
	runLogger.Debug().Msg("step")
	assert.Contains(t, buf.String(), `"run":"01HX"`)
}

func TestInit_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(FromFlags(true, "debug", &buf))
	defer Init(DefaultConfig())

	Debug().Msg("pretty message")

	out := buf.String()
	assert.Contains(t, out, "pretty message")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), out)
}
