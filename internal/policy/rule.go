// Package policy holds the table of compiler options the build enforces.
//
// A suggested rule only fills in an option the user left unset. A required
// rule always wins: its written value replaces whatever the user chose, or,
// when the rule's value is nil, the option is removed.
package policy

import (
	"fmt"
	"reflect"
)

// Mode says how a rule is enforced.
type Mode int

const (
	// Suggested rules apply only when the effective option is absent.
	Suggested Mode = iota
	// Required rules apply whenever the effective option differs.
	Required
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Suggested:
		return "suggested"
	case Required:
		return "required"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Rule governs one compiler option.
type Rule struct {
	Option string
	Mode   Mode
	// Value is the value written into the configuration file. For a
	// required rule nil means the option must not be set.
	Value any
	// Parsed is what the compiler produces for Value when it normalizes the
	// written form, e.g. "es5" to a target constant. Only consulted when
	// HasParsed is set.
	Parsed    any
	HasParsed bool
	Reason    string
}

// Expected is the effective value a compliant configuration has.
func (r Rule) Expected() any {
	if r.HasParsed {
		return r.Parsed
	}
	return r.Value
}

// Forbidden reports whether the rule requires the option to be absent.
func (r Rule) Forbidden() bool {
	return r.Mode == Required && r.Value == nil
}

// Satisfied reports whether the effective value complies with the rule.
// present is false when the option is absent from the effective options.
func (r Rule) Satisfied(effective any, present bool) bool {
	switch {
	case r.Mode == Suggested:
		return present
	case r.Forbidden():
		return !present
	default:
		return present && Equal(effective, r.Expected())
	}
}

// Equal compares option values structurally. Lists written as []any and
// []string compare equal when their elements do.
func Equal(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	if strs, ok := v.([]string); ok {
		out := make([]any, len(strs))
		for i, s := range strs {
			out[i] = s
		}
		return out
	}
	return v
}
