package compiler

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

// Category mirrors the compiler's diagnostic categories.
type Category int

const (
	CategoryWarning Category = iota
	CategoryError
	CategorySuggestion
	CategoryMessage
)

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategoryError:
		return "error"
	case CategorySuggestion:
		return "suggestion"
	default:
		return "message"
	}
}

// Diagnostic codes produced by the built-in compiler.
const (
	CodeCannotRead        = 5083
	CodeSyntax            = 1005
	CodeUnknownOption     = 5023
	CodeUnknownOptionHint = 5025
	CodeWrongType         = 5024
	CodeInvalidEnum       = 6046
	CodeCircularExtends   = 18000
)

// Diagnostic is one message reported by the compiler.
type Diagnostic struct {
	Code     int
	Category Category
	Message  string
	// File is the configuration file the diagnostic refers to, if any.
	File string
	// Line and Column are 1-based; zero when the position is unknown.
	Line   int
	Column int
	// Cause is the underlying error, when the diagnostic came from reading
	// or resolving configuration files.
	Cause error
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s TS%d: %s", d.Category, d.Code, d.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (d Diagnostic) Unwrap() error {
	return d.Cause
}

// IsSyntax reports whether the diagnostic stems from malformed JSON.
func (d Diagnostic) IsSyntax() bool {
	return tsconfig.KindOf(d.Cause) == tsconfig.KindParse || d.Code == CodeSyntax
}

// formatDiagnostic renders d like the compiler's formatDiagnostic:
// "file(line,col): error TS1234: message". File names are printed relative
// to cwd when possible.
func formatDiagnostic(d Diagnostic, cwd, newLine string) string {
	var b strings.Builder
	if d.File != "" {
		name := d.File
		if cwd != "" {
			if rel, err := filepath.Rel(cwd, d.File); err == nil && !strings.HasPrefix(rel, "..") {
				name = rel
			}
		}
		b.WriteString(name)
		if d.Line > 0 {
			fmt.Fprintf(&b, "(%d,%d)", d.Line, d.Column)
		}
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s TS%d: %s", d.Category, d.Code, d.Message)
	b.WriteString(newLine)
	return b.String()
}

// lineColumn converts a byte offset in data into a 1-based line and column.
func lineColumn(data []byte, offset int) (int, int) {
	if offset < 0 || offset > len(data) {
		return 0, 0
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	col := offset - bytes.LastIndexByte(prefix, '\n')
	return line, col
}
