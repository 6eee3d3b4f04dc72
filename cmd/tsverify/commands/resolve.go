package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

var resolveChain bool

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Print the effective configuration after following extends",
		Long: `Resolve a tsconfig.json and every file it extends, and print the merged
result.

Examples:
  tsverify resolve                       # ./tsconfig.json
  tsverify resolve packages/web/tsconfig.json
  tsverify resolve --chain               # Also list the files that were read`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "tsconfig.json"
			if len(args) == 1 {
				path = args[0]
			}
			return runResolve(cmd.OutOrStdout(), afero.NewOsFs(), path, resolveChain)
		},
	}
	cmd.Flags().BoolVar(&resolveChain, "chain", false, "List the configuration files in the chain")
	return cmd
}

func runResolve(out io.Writer, fs afero.Fs, path string, chain bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	tree, files, err := tsconfig.NewResolver(fs).ResolveChain(abs)
	if err != nil {
		return err
	}
	if chain {
		for _, file := range files {
			fmt.Fprintf(out, "// %s\n", file)
		}
	}
	data, err := tsconfig.Marshal(tree)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
