package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/tsverify/internal/event"
	"github.com/opencode-ai/tsverify/internal/logging"
	"github.com/opencode-ai/tsverify/internal/report"
	"github.com/opencode-ai/tsverify/internal/watch"
)

var (
	watchDir     string
	watchNoColor bool
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Verify tsconfig.json whenever it or a source file changes",
		Long: `Verify once, then again after every change to the configuration chain or
the TypeScript sources. Stops on SIGINT or SIGTERM.`,
		RunE: runWatch,
	}
	cmd.Flags().StringVarP(&watchDir, "dir", "d", "", "Application directory")
	cmd.Flags().BoolVar(&watchNoColor, "no-color", false, "Disable colored output")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	v, err := newVerifier(afero.NewOsFs(), watchDir)
	if err != nil {
		return err
	}
	console := report.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), watchNoColor, v.Paths.TSConfigName())
	bus := event.NewBus()
	defer bus.Close()
	v.Bus = bus
	announceDetection(bus, console)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	debounce := time.Duration(v.Settings.DebounceMS) * time.Millisecond
	w, err := watch.New(v.Paths, debounce, func(ctx context.Context) error {
		return verifyOnce(ctx, v, console, cmd.OutOrStdout())
	})
	if err != nil {
		return err
	}

	logging.Info().Str("dir", v.Paths.AppPath).Msg("watching for changes")
	return w.Watch(ctx)
}
