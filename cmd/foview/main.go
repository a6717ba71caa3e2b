// foview is an interactive viewer for unit-test reports.
//
// Usage:
//
//	foview report.xml                 # browse a moonunit report
//	go test -json ./... | foview      # browse go test results from stdin
//	foview list --fail nightly.txt    # print the failing tests
//	foview html -o report.html run.xml
//
// Accepts three input formats, detected from content:
//   - moonunit XML
//   - go test -json
//   - sectioned reports ("--- library:<name> format:<fmt> ---")
//
// Exit codes: 0 success, 1 when list shows a failure, 2 on usage or load
// errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/dkoosis/foview/internal/config"
	"github.com/dkoosis/foview/internal/logging"
	"github.com/dkoosis/foview/pkg/loader"
	"github.com/dkoosis/foview/pkg/model"
	"github.com/dkoosis/foview/pkg/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// exitError carries a process exit code through cobra. A nil err means the
// command already reported what it had to say.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: 2, err: err} }

// app is the state shared by every subcommand.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	flags config.CliFlags
	cfg   *config.ResolvedConfig
	log   *logging.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, log: logging.Discard()}
	defer func() { _ = a.log.Close() }()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		ee = &exitError{code: 2, err: err}
	}
	if ee.err != nil {
		a.errorf("%v", ee.err)
	}
	return ee.code
}

// setup resolves configuration and opens the logger. quiet sends logs
// nowhere unless a log file is configured, for when the TUI owns the
// terminal.
func (a *app) setup(quiet bool) error {
	cfg, err := config.ResolveConfig(a.flags)
	if err != nil {
		return usageError(err)
	}
	a.cfg = cfg
	color.NoColor = cfg.NoColor || !isTTY(a.stderr)

	switch {
	case cfg.LogFile != "":
		l, err := logging.Open(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return usageError(err)
		}
		a.log = l
	case quiet:
		a.log = logging.Discard()
	default:
		level := logging.LevelWarn
		if cfg.LogLevelSource != config.SourceDefault {
			level = cfg.LogLevel
		}
		a.log = logging.New(a.stderr, level)
	}
	a.log.Debug("configuration resolved",
		"config", cfg.ConfigPath,
		"theme", cfg.Theme,
		"theme_source", cfg.ThemeSource,
		"no_color_source", cfg.NoColorSource,
		"filter_source", cfg.FilterSource)
	return nil
}

// load reads the report named by args, or stdin when there is none.
func (a *app) load(args []string) (*model.Document, string, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if (path == "" || path == loader.StdinName) && isTTY(a.stdin) {
		return nil, path, usageError(errors.New("no input: pass a report file or pipe one on stdin"))
	}
	res, err := loader.Load(path, a.stdin, a.log)
	if err != nil {
		return nil, path, usageError(err)
	}
	if res.Malformed > 0 {
		a.warnf("%d malformed line(s) skipped", res.Malformed)
	}
	return res.Doc, path, nil
}

func (a *app) theme() render.Theme {
	if a.cfg.NoColor {
		return render.MonoTheme()
	}
	return render.ThemeByName(a.cfg.Theme)
}

func (a *app) errorf(format string, args ...any) {
	fmt.Fprintln(a.stderr, color.RedString("foview: "+format, args...))
}

func (a *app) warnf(format string, args ...any) {
	fmt.Fprintln(a.stderr, color.YellowString("foview: warning: "+format, args...))
}

func isTTY(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width of w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}
