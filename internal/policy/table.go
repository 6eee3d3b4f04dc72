package policy

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/opencode-ai/tsverify/internal/compiler"
	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

// Table is an ordered list of rules. Reconciliation visits rules in order,
// so the order is the order of the reported changes.
type Table []Rule

// Default returns the rules a React application build relies on.
func Default() Table {
	return Table{
		{Option: "target", Mode: Suggested, Value: "es5", Parsed: compiler.ScriptTargetES5, HasParsed: true},
		{Option: "lib", Mode: Suggested, Value: []any{"dom", "dom.iterable", "esnext"}},
		{Option: "allowJs", Mode: Suggested, Value: true},
		{Option: "skipLibCheck", Mode: Suggested, Value: true},
		{Option: "esModuleInterop", Mode: Suggested, Value: true},
		{Option: "allowSyntheticDefaultImports", Mode: Suggested, Value: true},
		{Option: "strict", Mode: Suggested, Value: true},
		{Option: "forceConsistentCasingInFileNames", Mode: Suggested, Value: true},
		{Option: "noFallthroughCasesInSwitch", Mode: Suggested, Value: true},

		// Keep in sync with the bundler configuration.
		{Option: "module", Mode: Required, Value: "esnext", Parsed: compiler.ModuleKindESNext, HasParsed: true,
			Reason: "for import() and import/export"},
		{Option: "moduleResolution", Mode: Required, Value: "node", Parsed: compiler.ModuleResolutionNodeJs, HasParsed: true,
			Reason: "to match webpack resolution"},
		{Option: "resolveJsonModule", Mode: Required, Value: true, Reason: "to match webpack loader"},
		{Option: "isolatedModules", Mode: Required, Value: true, Reason: "implementation limitation"},
		{Option: "noEmit", Mode: Required, Value: true},
		{Option: "jsx", Mode: Required, Value: "preserve", Parsed: compiler.JsxEmitPreserve, HasParsed: true,
			Reason: "JSX is compiled by Babel"},
		{Option: "paths", Mode: Required, Reason: "aliased imports are not supported"},
	}
}

// Lookup returns the rule for option.
func (t Table) Lookup(option string) (Rule, bool) {
	for _, r := range t {
		if r.Option == option {
			return r, true
		}
	}
	return Rule{}, false
}

// Validate checks that every written value in the table converts to the
// rule's expected value, so a file the table has corrected satisfies the
// table on the next run.
func (t Table) Validate(c compiler.Compiler) error {
	seen := make(map[string]bool, len(t))
	written := tsconfig.Tree{}
	for _, r := range t {
		if seen[r.Option] {
			return fmt.Errorf("duplicate rule for %s", r.Option)
		}
		seen[r.Option] = true
		if r.Mode == Suggested && r.Value == nil {
			return fmt.Errorf("suggested rule for %s has no value", r.Option)
		}
		if !r.Forbidden() {
			written[r.Option] = tsconfig.Normalize(r.Value)
		}
	}

	configPath, err := filepath.Abs("tsconfig.json")
	if err != nil {
		return err
	}
	result := c.ParseConfig(tsconfig.Tree{tsconfig.KeyCompilerOptions: written}, filepath.Dir(configPath), configPath)
	if len(result.Errors) > 0 {
		errs := make([]error, 0, len(result.Errors))
		for _, d := range result.Errors {
			errs = append(errs, d)
		}
		return fmt.Errorf("policy values are rejected by %s: %w", c.Name(), errors.Join(errs...))
	}

	for _, r := range t {
		effective, present := result.Options[r.Option]
		if !present && r.Mode == Suggested {
			return fmt.Errorf("suggested value for %s is dropped by %s", r.Option, c.Name())
		}
		if r.Mode == Required && !r.Satisfied(effective, present) {
			return fmt.Errorf("required value for %s converts to %v, expected %v", r.Option, effective, r.Expected())
		}
		if r.Mode == Suggested && r.HasParsed && !Equal(effective, r.Parsed) {
			return fmt.Errorf("suggested value for %s converts to %v, expected %v", r.Option, effective, r.Parsed)
		}
	}
	return nil
}
