package verify

import (
	"github.com/opencode-ai/tsverify/internal/policy"
	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

// Reconcile applies table to the written tree, judging each rule against
// the effective options. Corrections always go into the written tree's own
// compilerOptions, which is created when missing, so the next parse sees
// them. The returned log lists the corrections in table order.
func Reconcile(written tsconfig.Tree, effective map[string]any, table policy.Table) ChangeLog {
	opts := written.EnsureSub(tsconfig.KeyCompilerOptions)

	var changes ChangeLog
	for _, rule := range table {
		value, present := effective[rule.Option]
		if rule.Satisfied(value, present) {
			continue
		}

		switch {
		case rule.Mode == policy.Suggested:
			opts[rule.Option] = tsconfig.Normalize(rule.Value)
			changes = append(changes, Change{Option: rule.Option, Kind: ChangeSuggested, Value: rule.Value})
		case rule.Forbidden():
			delete(opts, rule.Option)
			changes = append(changes, Change{Option: rule.Option, Kind: ChangeRemoved, Reason: rule.Reason})
		default:
			opts[rule.Option] = tsconfig.Normalize(rule.Value)
			changes = append(changes, Change{Option: rule.Option, Kind: ChangeRequired, Value: rule.Value, Reason: rule.Reason})
		}
	}
	return changes
}

// EnsureInclude sets include on the written tree to srcDir when the parsed
// tree, which carries include values inherited through extends, has none.
func EnsureInclude(written, parsed tsconfig.Tree, srcDir string) ChangeLog {
	if parsed[tsconfig.KeyInclude] != nil {
		return nil
	}
	value := []any{srcDir}
	written[tsconfig.KeyInclude] = value
	return ChangeLog{{Kind: ChangeInclude, Value: srcDir}}
}
