package verify

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/opencode-ai/tsverify/internal/compiler"
	"github.com/opencode-ai/tsverify/internal/config"
	"github.com/opencode-ai/tsverify/internal/event"
	"github.com/opencode-ai/tsverify/internal/policy"
	"github.com/opencode-ai/tsverify/internal/scan"
	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

// LocateFunc acquires the compiler package name from nodeModules.
type LocateFunc func(fs afero.Fs, nodeModules, name string) (compiler.Compiler, error)

// Verifier checks and corrects an application's configuration file.
type Verifier struct {
	Fs       afero.Fs
	Paths    config.Paths
	Settings *config.Settings
	Policy   policy.Table
	Locate   LocateFunc
	Scanner  *scan.Scanner
	// Bus receives the run's events. It may be nil.
	Bus *event.Bus
	// DryRun computes every change without writing any file.
	DryRun bool
}

// New creates a verifier with the default policy and compiler lookup.
func New(fs afero.Fs, paths config.Paths, settings *config.Settings) *Verifier {
	if settings == nil {
		settings = config.Default()
	}
	return &Verifier{
		Fs:       fs,
		Paths:    paths,
		Settings: settings,
		Policy:   policy.Default(),
		Locate:   compiler.Locate,
		Scanner:  scan.New(fs),
	}
}

// Result describes a completed run.
type Result struct {
	// Skipped is set when there is no configuration file and no source
	// file needs one.
	Skipped        bool
	FirstTimeSetup bool
	Changes        ChangeLog
	// Written is set when the configuration file was rewritten.
	Written bool
	// Before and After hold the configuration file content before and after
	// the run. Before is nil when the file did not exist; After is nil when
	// nothing changed.
	Before []byte
	After  []byte
	// DeclarationsCreated is set when the ambient declarations file was
	// missing. In a dry run it was not actually written.
	DeclarationsCreated bool
	// DetectedFile is the first source file found when the configuration
	// file was missing, relative to the application root.
	DetectedFile string
	DryRun       bool
	// Compiler is the name and version of the compiler used.
	Compiler string
}

// Run executes one verification pass. Fatal conditions are returned as
// *AbortError; the verifier never exits the process.
func (v *Verifier) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc := NewRunContext(v.Fs, v.Paths, v.Bus)
	result, err := v.run(rc)
	if err != nil {
		var abort *AbortError
		if errors.As(err, &abort) {
			rc.Log.Debug().Str("kind", abort.Kind.String()).Err(abort.Err).Msg("verification aborted")
			rc.publish(event.VerifyAborted, event.AbortedData{Kind: abort.Kind.String(), Message: abort.Message})
		}
		return nil, err
	}

	rc.publish(event.VerifyFinished, event.FinishedData{
		Skipped:        result.Skipped,
		FirstTimeSetup: result.FirstTimeSetup,
		Changes:        len(result.Changes),
		Written:        result.Written,
	})
	rc.Log.Debug().
		Bool("skipped", result.Skipped).
		Int("changes", len(result.Changes)).
		Bool("written", result.Written).
		Msg("verification finished")
	return result, nil
}

func (v *Verifier) run(rc *RunContext) (*Result, error) {
	paths := v.Paths
	result := &Result{DryRun: v.DryRun}

	rc.Log.Debug().Str("tsconfig", paths.AppTSConfig).Bool("dryRun", v.DryRun).Msg("verification started")
	rc.publish(event.VerifyStarted, event.StartedData{AppPath: paths.AppPath, TSConfig: paths.AppTSConfig, DryRun: v.DryRun})

	exists, err := afero.Exists(v.Fs, paths.AppTSConfig)
	if err != nil {
		return nil, ioAbort(err, "Could not check for %s", paths.TSConfigName())
	}

	var written tsconfig.Tree
	if !exists {
		file, found, err := v.Scanner.Any(paths.AppSrc, scan.TypeScriptSources, scan.TypeScriptExcludes)
		if err != nil {
			return nil, ioAbort(err, "Could not scan %s", paths.AppSrc)
		}
		if !found {
			rc.Log.Debug().Msg("no TypeScript sources found")
			result.Skipped = true
			return result, nil
		}

		result.DetectedFile = v.relToApp(filepath.Join(paths.AppSrc, filepath.FromSlash(file)))
		rc.publish(event.VerifyDetected, event.DetectedData{File: result.DetectedFile})

		written = tsconfig.Tree{}
		if !v.DryRun {
			if err := tsconfig.Write(v.Fs, paths.AppTSConfig, written); err != nil {
				return nil, ioAbort(err, "Could not create %s", paths.TSConfigName())
			}
		}
		rc.FirstTimeSetup = true
		rc.publish(event.VerifyBootstrapped, event.BootstrappedData{TSConfig: paths.AppTSConfig})
	}

	c, err := v.Locate(v.Fs, paths.AppNodeModules, v.Settings.Compiler)
	if err != nil {
		return nil, v.missingCompiler(err)
	}
	result.Compiler = c.Name() + "@" + c.Version()
	rc.Log.Debug().Str("compiler", result.Compiler).Msg("compiler located")

	if exists {
		before, err := afero.ReadFile(v.Fs, paths.AppTSConfig)
		if err != nil {
			return nil, ioAbort(err, "Could not read %s", paths.TSConfigName())
		}
		result.Before = before

		tree, diag := c.ReadConfigFile(paths.AppTSConfig)
		if diag != nil {
			return nil, v.diagnosticAbort(c, *diag)
		}
		written = tree
	}

	parsed := c.ParseConfig(written, filepath.Dir(paths.AppTSConfig), paths.AppTSConfig)
	if parsed.HasErrors() {
		return nil, v.diagnosticAbort(c, parsed.Errors[0])
	}

	// New keys go after the user's own, in the order they are added.
	layout := tsconfig.LayoutOf(result.Before)
	if written[tsconfig.KeyCompilerOptions] == nil {
		written[tsconfig.KeyCompilerOptions] = tsconfig.Tree{}
		rc.FirstTimeSetup = true
	}
	layout.Append(nil, tsconfig.KeyCompilerOptions)
	result.FirstTimeSetup = rc.FirstTimeSetup

	changes := Reconcile(written, parsed.Options, v.Policy)
	changes = append(changes, EnsureInclude(written, parsed.Tree, paths.SrcRel())...)
	for _, change := range changes {
		switch change.Kind {
		case ChangeSuggested, ChangeRequired:
			layout.Append([]string{tsconfig.KeyCompilerOptions}, change.Option)
		case ChangeInclude:
			layout.Append(nil, tsconfig.KeyInclude)
		}
		rc.Log.Debug().
			Str("option", change.Option).
			Str("action", change.Kind.String()).
			Msg("correcting configuration")
		rc.publish(event.ChangeApplied, event.ChangeData{
			Option:  change.Option,
			Kind:    change.Kind.String(),
			Message: change.String(),
		})
	}
	result.Changes = changes

	if !changes.Empty() {
		data, err := tsconfig.MarshalLayout(written, layout)
		if err != nil {
			return nil, ioAbort(err, "Could not serialize %s", paths.TSConfigName())
		}
		result.After = data
		if !v.DryRun {
			if err := tsconfig.WriteFile(v.Fs, paths.AppTSConfig, data); err != nil {
				return nil, ioAbort(err, "Could not write %s", paths.TSConfigName())
			}
			result.Written = true
			rc.publish(event.ConfigWritten, event.WrittenData{Path: paths.AppTSConfig, Bytes: len(data)})
		}
	}

	created, err := v.ensureDeclarations(rc)
	if err != nil {
		return nil, err
	}
	result.DeclarationsCreated = created
	return result, nil
}

// ensureDeclarations creates the ambient declarations file when it is
// missing, whether or not anything else changed.
func (v *Verifier) ensureDeclarations(rc *RunContext) (bool, error) {
	path := v.Paths.AppTypeDeclarations
	exists, err := afero.Exists(v.Fs, path)
	if err != nil {
		return false, ioAbort(err, "Could not check for %s", path)
	}
	if exists {
		return false, nil
	}
	if v.DryRun {
		return true, nil
	}

	content := DeclarationsContent(v.Settings.TypesReference)
	if err := tsconfig.WriteFile(v.Fs, path, []byte(content)); err != nil {
		return false, ioAbort(err, "Could not write %s", path)
	}
	rc.publish(event.DeclarationsWritten, event.WrittenData{Path: path, Bytes: len(content)})
	return true, nil
}

// DeclarationsContent is the ambient declarations file referencing the
// build tool's type definitions.
func DeclarationsContent(typesReference string) string {
	return fmt.Sprintf("/// <reference types=%q />%s", typesReference, tsconfig.EOL)
}

func (v *Verifier) missingCompiler(err error) error {
	name := v.Settings.Compiler
	install := "npm install " + name
	if isYarn, _ := afero.Exists(v.Fs, v.Paths.YarnLockFile); isYarn {
		install = "yarn add " + name
	}
	return &AbortError{
		Kind:    AbortMissingCompiler,
		Message: fmt.Sprintf("It looks like you're trying to use TypeScript but do not have %s installed.", name),
		Hints: []string{
			fmt.Sprintf("Please install %s by running %s.", name, install),
			fmt.Sprintf("If you are not trying to use TypeScript, please remove the %s file from your package root (and any TypeScript files).",
				v.Paths.TSConfigName()),
		},
		Err: err,
	}
}

func (v *Verifier) diagnosticAbort(c compiler.Compiler, d compiler.Diagnostic) error {
	abort := &AbortError{
		Kind:    AbortDiagnostic,
		Message: strings.TrimRight(c.FormatDiagnostic(d), "\r\n"),
		Err:     d,
	}
	if d.IsSyntax() {
		abort.Kind = AbortMalformed
		abort.Hints = []string{fmt.Sprintf("Could not parse %s. Please make sure it contains syntactically correct JSON.",
			v.Paths.TSConfigName())}
	}
	return abort
}

func (v *Verifier) relToApp(path string) string {
	if rel, err := filepath.Rel(v.Paths.AppPath, path); err == nil {
		return rel
	}
	return path
}

func ioAbort(err error, format string, args ...any) error {
	return &AbortError{Kind: AbortIO, Message: fmt.Sprintf(format, args...) + ": " + err.Error(), Err: err}
}
