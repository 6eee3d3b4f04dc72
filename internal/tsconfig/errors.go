package tsconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies chain resolution failures.
type ErrorKind int

const (
	// KindNotFound means a referenced file does not exist or cannot be read.
	KindNotFound ErrorKind = iota + 1
	// KindParse means a file is not a well-formed configuration object.
	KindParse
	// KindCycle means an extends chain refers back to one of its own files.
	KindCycle
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse"
	case KindCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// Sentinels matched by Error.Is.
var (
	ErrConfigNotFound = errors.New("config not found")
	ErrConfigParse    = errors.New("config parse error")
	ErrConfigCycle    = errors.New("config extends cycle")
)

// Error is the tagged error returned by Parse, Load and Resolver.
type Error struct {
	Kind    ErrorKind
	Path    string
	Message string
	// Offset is the byte offset of a syntax error, or -1 when unknown.
	Offset int
	// Chain lists the files of a cycle in visit order, ending with the
	// file that closed the loop.
	Chain []string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindNotFound:
		fmt.Fprintf(&b, "cannot read config file %s", e.Path)
	case KindParse:
		fmt.Fprintf(&b, "cannot parse config file %s", e.Path)
		if e.Offset >= 0 {
			fmt.Fprintf(&b, " at offset %d", e.Offset)
		}
	case KindCycle:
		fmt.Fprintf(&b, "circular extends in %s: %s", e.Path, strings.Join(e.Chain, " -> "))
	default:
		fmt.Fprintf(&b, "config error in %s", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfigNotFound:
		return e.Kind == KindNotFound
	case ErrConfigParse:
		return e.Kind == KindParse
	case ErrConfigCycle:
		return e.Kind == KindCycle
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind
	}
	return 0
}
