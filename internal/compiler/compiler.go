// Package compiler is the boundary to the project's type checker.
//
// The verification pipeline never interprets compiler options itself. It
// asks a Compiler to read the configuration file and to turn the written
// tree into effective options: extends chains followed, enum strings
// converted to their internal constants, invalid values reported as
// diagnostics. Locate acquires the compiler from the project's dependency
// directory and fails with ErrNotInstalled when the package is absent.
package compiler

import (
	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

// Options is the effective option set produced by ParseConfig. Enum-valued
// options hold typed constants such as ScriptTarget; absent options have no
// key at all.
type Options map[string]any

// ParseResult is the outcome of ParseConfig.
type ParseResult struct {
	// Options are the effective compiler options.
	Options Options
	// Tree is a copy of the written tree enriched with the include, exclude
	// and files values inherited through extends.
	Tree tsconfig.Tree
	// Errors holds every diagnostic reported while converting the tree.
	Errors []Diagnostic
}

// HasErrors reports whether any error-category diagnostic was produced.
func (r ParseResult) HasErrors() bool {
	for _, d := range r.Errors {
		if d.Category == CategoryError {
			return true
		}
	}
	return false
}

// Compiler is the type-checker collaborator used by the verifier.
type Compiler interface {
	// Name is the package name the compiler was acquired from.
	Name() string
	// Version is the installed package version.
	Version() string
	// ReadConfigFile reads and decodes a configuration file. A non-nil
	// diagnostic means the file could not be read or is not valid JSONC.
	ReadConfigFile(path string) (tsconfig.Tree, *Diagnostic)
	// ParseConfig converts a written tree into effective options. tree is
	// taken by value: implementations must not modify it. basePath is the
	// directory relative paths are resolved against and configPath the file
	// the tree was read from.
	ParseConfig(tree tsconfig.Tree, basePath, configPath string) ParseResult
	// FormatDiagnostic renders d the way the compiler prints it.
	FormatDiagnostic(d Diagnostic) string
}
