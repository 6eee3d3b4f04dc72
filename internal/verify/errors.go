package verify

import "strings"

// AbortKind classifies the conditions that stop a run.
type AbortKind int

const (
	// AbortMissingCompiler means the compiler package is not installed.
	AbortMissingCompiler AbortKind = iota + 1
	// AbortMalformed means the configuration file is not valid JSON.
	AbortMalformed
	// AbortDiagnostic means the compiler rejected the configuration.
	AbortDiagnostic
	// AbortIO means a file could not be read, scanned or written.
	AbortIO
)

// String implements fmt.Stringer.
func (k AbortKind) String() string {
	switch k {
	case AbortMissingCompiler:
		return "missing-compiler"
	case AbortMalformed:
		return "malformed"
	case AbortDiagnostic:
		return "diagnostic"
	case AbortIO:
		return "io"
	default:
		return "unknown"
	}
}

// AbortError is returned by Run when the build must not proceed. Callers
// print Message and Hints and exit with a failure status.
type AbortError struct {
	Kind    AbortKind
	Message string
	// Hints are remediation lines shown after the message.
	Hints []string
	Err   error
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if e.Err != nil && msg == "" {
		return e.Err.Error()
	}
	return msg
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *AbortError) Unwrap() error {
	return e.Err
}
