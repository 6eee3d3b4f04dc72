// Package report renders verification results for a terminal.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/opencode-ai/tsverify/internal/verify"
)

// Console prints results the way the build tool does: notices on Out,
// warnings and errors on Err.
type Console struct {
	Out     io.Writer
	Err     io.Writer
	NoColor bool
	// Name is the configuration file name shown in messages.
	Name string
}

// NewConsole creates a console printer.
func NewConsole(out, errOut io.Writer, noColor bool, name string) *Console {
	if name == "" {
		name = "tsconfig.json"
	}
	return &Console{Out: out, Err: errOut, NoColor: noColor, Name: name}
}

func (c *Console) paint(attrs ...color.Attribute) *color.Color {
	col := color.New(attrs...)
	if c.NoColor {
		col.DisableColor()
	} else {
		col.EnableColor()
	}
	return col
}

// Detected announces that TypeScript sources were found and a configuration
// file was created for them.
func (c *Console) Detected(file string) {
	bold := c.paint(color.FgYellow, color.Bold)
	yellow := c.paint(color.FgYellow)
	fmt.Fprintln(c.Err, yellow.Sprintf("We detected TypeScript in your project (%s) and created a %s file for you.",
		bold.Sprint(file), bold.Sprint(c.Name)))
	fmt.Fprintln(c.Err)
}

// Changes prints the corrections of a run. First time setup gets a single
// notice; otherwise every change is listed.
func (c *Console) Changes(result *verify.Result) {
	if result == nil || result.Changes.Empty() {
		return
	}
	bold := c.paint(color.Bold)
	name := c.paint(color.FgCyan, color.Bold).Sprint(c.Name)

	if result.FirstTimeSetup {
		verb := "has been"
		if result.DryRun {
			verb = "would be"
		}
		fmt.Fprintln(c.Out, bold.Sprintf("Your %s %s populated with default values.", name, verb))
		fmt.Fprintln(c.Out)
		return
	}

	verb := "are being"
	if result.DryRun {
		verb = "would be"
	}
	fmt.Fprintln(c.Err, bold.Sprintf("The following changes %s made to your %s file:", verb, name))
	for _, change := range result.Changes {
		fmt.Fprintln(c.Err, "  - "+c.Change(change))
	}
	fmt.Fprintln(c.Err)
}

// Change renders one change with colour. Without colour it equals
// change.String().
func (c *Console) Change(change verify.Change) string {
	cyan := c.paint(color.FgCyan)
	value := c.paint(color.FgCyan, color.Bold)
	bold := c.paint(color.Bold)

	path := cyan.Sprint(change.Path())
	var line string
	switch change.Kind {
	case verify.ChangeSuggested:
		return fmt.Sprintf("%s to be %s value: %s (this can be changed)",
			path, bold.Sprint("suggested"), value.Sprint(verify.FormatValue(change.Value)))
	case verify.ChangeRequired:
		line = fmt.Sprintf("%s %s be %s", path, bold.Sprint("must"), value.Sprint(verify.FormatValue(change.Value)))
	case verify.ChangeRemoved:
		line = fmt.Sprintf("%s %s be set", path, bold.Sprint("must not"))
	case verify.ChangeInclude:
		return fmt.Sprintf("%s should be %s", path, value.Sprint(verify.FormatValue(change.Value)))
	default:
		return change.String()
	}
	if change.Reason != "" {
		line += " (" + change.Reason + ")"
	}
	return line
}

// Abort prints a fatal error with its remediation hints.
func (c *Console) Abort(err error) {
	red := c.paint(color.FgRed, color.Bold)
	bold := c.paint(color.Bold)

	var abort *verify.AbortError
	if !errors.As(err, &abort) {
		fmt.Fprintln(c.Err, red.Sprint(err.Error()))
		return
	}

	switch abort.Kind {
	case verify.AbortMalformed:
		// The hint is the headline; the diagnostic follows in plain text.
		for _, hint := range abort.Hints {
			fmt.Fprintln(c.Err, red.Sprint(hint))
		}
		fmt.Fprintln(c.Err, abort.Message)
	case verify.AbortDiagnostic:
		fmt.Fprintln(c.Err, abort.Message)
	default:
		fmt.Fprintln(c.Err, red.Sprint(abort.Message))
		for _, hint := range abort.Hints {
			fmt.Fprintln(c.Err, bold.Sprint(hint))
		}
	}
	fmt.Fprintln(c.Err)
}
