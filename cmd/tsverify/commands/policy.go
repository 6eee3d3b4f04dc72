package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/tsverify/internal/policy"
	"github.com/opencode-ai/tsverify/internal/verify"
)

func newPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy [option]",
		Short: "List the compiler options tsverify enforces",
		Long: `List the compiler options tsverify enforces, or show the rule for one option.

Examples:
  tsverify policy          # All rules
  tsverify policy jsx      # The rule for compilerOptions.jsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := policy.Default()
			if len(args) == 1 {
				rule, ok := table.Lookup(args[0])
				if !ok {
					return fmt.Errorf("no rule for compiler option %q", args[0])
				}
				table = policy.Table{rule}
			}
			return printPolicy(cmd.OutOrStdout(), table)
		},
	}
}

func printPolicy(out io.Writer, table policy.Table) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OPTION\tMODE\tVALUE\tREASON")
	for _, rule := range table {
		value := verify.FormatValue(rule.Value)
		if rule.Forbidden() {
			value = "(unset)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rule.Option, rule.Mode, value, rule.Reason)
	}
	return w.Flush()
}
