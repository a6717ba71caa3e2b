package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/foview/pkg/model"
	"github.com/dkoosis/foview/pkg/watch"
)

// Run starts the interactive program and blocks until the user quits or ctx
// is cancelled. When w is non-nil, each change to the watched file calls
// load and hands the result to the program as a ReloadMsg.
func Run(ctx context.Context, m Model, w *watch.Watcher, load func() (*model.Document, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	watchErr := make(chan error, 1)
	if w != nil && load != nil {
		go func() {
			watchErr <- w.Run(ctx, func() {
				doc, err := load()
				program.Send(ReloadMsg{Doc: doc, Err: err})
			})
		}()
	} else {
		close(watchErr)
	}

	_, err := program.Run()
	cancel()
	if werr := <-watchErr; werr != nil && !errors.Is(werr, context.Canceled) {
		m.opts.Logger.Warn("watcher stopped", "error", werr)
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
