package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dkoosis/foview/internal/version"
	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/loader"
	"github.com/dkoosis/foview/pkg/model"
	"github.com/dkoosis/foview/pkg/render"
	"github.com/dkoosis/foview/pkg/tui"
	"github.com/dkoosis/foview/pkg/viewstate"
	"github.com/dkoosis/foview/pkg/watch"
)

const rootLong = `Browse and filter unit-test reports.

A filter block in the config file is a startup preset: it sets the filter a
report opens with and is not saved state. Reset (r) always returns to showing
every test.`

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "foview [file]",
		Short:         "Browse and filter unit-test reports",
		Long:          rootLong,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          a.runView,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			f := cmd.Flags()
			a.flags.NoColorSet = f.Changed("no-color")
			a.flags.LegacyMenusSet = f.Changed("legacy-menus")
			a.flags.WatchSet = f.Changed("watch")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "config file (default .foview.yaml or .foview.toml); its filter block is a startup preset")
	pf.StringVar(&a.flags.Theme, "theme", "", "theme: "+fmt.Sprint(render.ThemeNames()))
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "disable colour")
	pf.StringVar(&a.flags.LogFile, "log-file", "", "write structured logs to this file")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	pf.BoolVar(&a.flags.LegacyMenus, "legacy-menus", false, "opening a library menu leaves other menus open")
	pf.BoolVar(&a.flags.Watch, "watch", false, "reload the report when the file changes")

	view := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a report interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runView,
	}
	root.AddCommand(view, newListCmd(a), newHTMLCmd(a), newVersionCmd())
	return root
}

// runView starts the TUI, or prints a plain listing when stdout is not a
// terminal.
func (a *app) runView(cmd *cobra.Command, args []string) error {
	interactive := isTTY(a.stdout)
	if err := a.setup(interactive); err != nil {
		return err
	}
	if !interactive {
		return a.list(args, filterFlags{format: "plain"}, cmd)
	}

	doc, path, err := a.load(args)
	if err != nil {
		return err
	}

	var w *watch.Watcher
	if a.cfg.Watch {
		if path == "" || path == loader.StdinName {
			a.warnf("--watch needs a file; ignoring it for stdin")
		} else if w, err = watch.New(path, 0, a.log); err != nil {
			return usageError(err)
		} else {
			defer func() { _ = w.Close() }()
		}
	}
	reload := func() (*model.Document, error) {
		res, err := loader.Load(path, nil, a.log)
		return res.Doc, err
	}

	crit := a.cfg.Filter
	m := tui.New(doc, tui.Options{
		Criteria:      &crit,
		LegacyMenus:   a.cfg.LegacyMenus,
		Theme:         a.theme(),
		SlideDuration: a.cfg.SlideDuration,
		Logger:        a.log,
	})
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return tui.Run(ctx, m, w, reload)
}

// filterFlags are the non-interactive equivalents of the filter controls.
type filterFlags struct {
	name             string
	pass, fail, skip bool
	library          string
	all              bool
	format           string
}

func (ff *filterFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&ff.name, "name", "", "show tests whose name contains this (case-insensitive); overrides the config startup preset")
	f.BoolVar(&ff.pass, "pass", false, "show passing tests (with --fail/--skip: only the named statuses)")
	f.BoolVar(&ff.fail, "fail", false, "show failing tests")
	f.BoolVar(&ff.skip, "skip", false, "show skipped tests")
	f.StringVar(&ff.library, "library", "", "library to show (default: the first)")
}

// criteria overlays the flags the user gave on the configured filter. Naming
// any status flag shows exactly the named statuses.
func (ff filterFlags) criteria(cmd *cobra.Command, base filter.Criteria) filter.Criteria {
	c := base
	f := cmd.Flags()
	if f.Changed("name") {
		c.Name = ff.name
	}
	if f.Changed("pass") || f.Changed("fail") || f.Changed("skip") {
		c.ShowPass, c.ShowFail, c.ShowSkip = ff.pass, ff.fail, ff.skip
	}
	return c
}

// session replays the flags through the reducer so listings and exports
// show exactly what the interactive view would.
func (a *app) session(cmd *cobra.Command, doc *model.Document, ff filterFlags) (viewstate.State, *viewstate.Recorder, error) {
	c := ff.criteria(cmd, a.cfg.Filter)
	st, effects := viewstate.New(doc, viewstate.Options{Criteria: &c, LegacyMenus: a.cfg.LegacyMenus})
	rec := viewstate.NewRecorder()
	rec.Apply(effects)
	if ff.library != "" {
		var err error
		st, effects, err = viewstate.Reduce(st, viewstate.SwitchLibrary{Source: st.Menus().Visible(), Target: ff.library})
		if err != nil {
			return st, rec, usageError(fmt.Errorf("library %q: %w", ff.library, err))
		}
		rec.Apply(effects)
	}
	return st, rec, nil
}

func newListCmd(a *app) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "Print the tests that pass the filter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			return a.list(args, ff, cmd)
		},
	}
	ff.bind(cmd)
	cmd.Flags().BoolVar(&ff.all, "all", false, "list every library, not only the visible one")
	cmd.Flags().StringVar(&ff.format, "format", "", "output format: terminal, plain, json (default terminal on a TTY, plain otherwise)")
	return cmd
}

func (a *app) list(args []string, ff filterFlags, cmd *cobra.Command) error {
	format := ff.format
	if format == "" {
		format = "plain"
		if isTTY(a.stdout) {
			format = "terminal"
		}
	}
	r, ok := render.ByName(format, a.theme(), termWidth(a.stdout))
	if !ok {
		return usageError(fmt.Errorf("unknown format %q (expected terminal, plain, json)", format))
	}

	doc, _, err := a.load(args)
	if err != nil {
		return err
	}
	st, rec, err := a.session(cmd, doc, ff)
	if err != nil {
		return err
	}

	v := render.Build(doc, rec, st.Criteria())
	if ff.all {
		v = a.everyLibrary(st, rec)
	}
	fmt.Fprint(a.stdout, r.Render(v))
	a.log.Info("listed report", "format", format, "libraries", len(v.Shown))
	if v.HasVisibleFailure() {
		return &exitError{code: 1}
	}
	return nil
}

// everyLibrary steps through the libraries with NextLibrary and joins what
// each one shows.
func (a *app) everyLibrary(st viewstate.State, rec *viewstate.Recorder) render.View {
	doc := st.Document()
	all := render.Build(doc, rec, st.Criteria())
	for range len(doc.Libraries) - 1 {
		next, effects, err := viewstate.Reduce(st, viewstate.NextLibrary{})
		if err != nil {
			a.log.Warn("library step failed", "error", err)
			break
		}
		st = next
		rec.Apply(effects)
		all.Shown = append(all.Shown, render.Build(doc, rec, st.Criteria()).Shown...)
	}
	return all
}

func newHTMLCmd(a *app) *cobra.Command {
	var (
		ff  filterFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "html [file]",
		Short: "Export the report as a static HTML page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			doc, _, err := a.load(args)
			if err != nil {
				return err
			}
			st, rec, err := a.session(cmd, doc, ff)
			if err != nil {
				return err
			}
			return a.writeHTML(out, func(w io.Writer) error {
				return render.NewHTML().Write(w, doc, rec, st.Criteria())
			})
		},
	}
	ff.bind(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func (a *app) writeHTML(path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(a.stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return usageError(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return err
	}
	a.log.Info("html written", "path", path)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "foview %s (commit %s, built %s)\n",
				version.Version, version.CommitHash, version.BuildDate)
		},
	}
}
