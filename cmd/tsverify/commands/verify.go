package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/tsverify/internal/config"
	"github.com/opencode-ai/tsverify/internal/event"
	"github.com/opencode-ai/tsverify/internal/logging"
	"github.com/opencode-ai/tsverify/internal/report"
	"github.com/opencode-ai/tsverify/internal/verify"
)

type verifyOptions struct {
	dir     string
	dryRun  bool
	noColor bool
	events  bool
}

func newVerifyCmd() *cobra.Command {
	opts := &verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify and correct tsconfig.json once",
		Long: `Verify the application's tsconfig.json against the build policy and
correct it in place.

Examples:
  tsverify verify                  # Verify the current directory
  tsverify verify --dir ./app      # Verify another application
  tsverify verify --dry-run        # Show the changes without writing them
  tsverify verify --events         # Stream run events as JSON lines`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), afero.NewOsFs(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Application directory")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report changes without writing any file")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&opts.events, "events", false, "Stream run events to stderr as JSON lines")
	return cmd
}

// newVerifier loads settings for dir and builds a verifier over fs.
func newVerifier(fs afero.Fs, dir string) (*verify.Verifier, error) {
	workDir, err := GetWorkDir(dir)
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(workDir)
	if err != nil {
		return nil, err
	}
	paths, err := config.GetPaths(workDir, settings)
	if err != nil {
		return nil, err
	}
	return verify.New(fs, paths, settings), nil
}

func runVerify(ctx context.Context, out, errOut io.Writer, fs afero.Fs, opts *verifyOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	v, err := newVerifier(fs, opts.dir)
	if err != nil {
		return err
	}
	v.DryRun = opts.dryRun

	bus := event.NewBus()
	v.Bus = bus
	var stream sync.WaitGroup
	if opts.events {
		if err := streamEvents(ctx, bus, errOut, &stream); err != nil {
			return err
		}
	}
	defer func() {
		bus.Close()
		stream.Wait()
	}()

	console := report.NewConsole(out, errOut, opts.noColor, v.Paths.TSConfigName())
	announceDetection(bus, console)
	return verifyOnce(ctx, v, console, out)
}

// announceDetection prints the detection notice as soon as the run detects
// sources, so it is shown even when the run aborts afterwards.
func announceDetection(bus *event.Bus, console *report.Console) {
	bus.Subscribe(event.VerifyDetected, func(ev event.Event) {
		if data, ok := ev.Data.(event.DetectedData); ok {
			console.Detected(data.File)
		}
	})
}

// verifyOnce runs v and prints its outcome.
func verifyOnce(ctx context.Context, v *verify.Verifier, console *report.Console, out io.Writer) error {
	result, err := v.Run(ctx)
	if err != nil {
		console.Abort(err)
		return ErrReported
	}
	if result.Skipped {
		logging.Debug().Msg("no TypeScript sources, nothing to verify")
		return nil
	}
	console.Changes(result)
	if v.DryRun && result.After != nil {
		name := v.Paths.TSConfigName()
		fmt.Fprint(out, report.Diff(name, result.Before, result.After))
		additions, deletions := report.DiffStat(result.Before, result.After)
		fmt.Fprintf(out, "%s: %d insertions(+), %d deletions(-)\n", name, additions, deletions)
	}
	return nil
}

// streamEvents writes every event on bus to w as one JSON line.
func streamEvents(ctx context.Context, bus *event.Bus, w io.Writer, wg *sync.WaitGroup) error {
	messages, err := bus.Messages(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range messages {
			ev, err := event.Decode(msg)
			if err == nil {
				_ = enc.Encode(ev)
			}
			msg.Ack()
		}
	}()
	return nil
}
