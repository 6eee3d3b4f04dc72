// Package commands provides the CLI commands for tsverify.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/tsverify/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// ErrReported is returned when a failure was already printed to the user.
var ErrReported = errors.New("verification failed")

// Global flags
var (
	printLogs bool
	logLevel  string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tsverify",
		Short: "Verify and correct an application's tsconfig.json",
		Long: `tsverify checks the TypeScript configuration of an application before it
is built. Missing suggested options are filled in, options the build depends on
are corrected and a tsconfig.json is created when TypeScript sources exist
without one.

Run 'tsverify verify' once before a build, or 'tsverify watch' to keep the
configuration correct while editing.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(cmd.ErrOrStderr())
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "Log level (DEBUG|INFO|WARN|ERROR)")

	cmd.SetVersionTemplate(fmt.Sprintf("tsverify %s (%s)\n", Version, BuildTime))

	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newPolicyCmd())
	return cmd
}

func initLogging(errOut io.Writer) {
	logging.Init(logging.FromFlags(printLogs, logLevel, errOut))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
