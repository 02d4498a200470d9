package tui

import (
	"context"
	"errors"

	"github.com/aretw0/lifecycle"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/notelin"
	"github.com/aretw0/notelin/pkg/core"
)

// New creates the Model for app.
func New(ctx context.Context, app *notelin.App) Model {
	return NewModel(ctx, app.NewListController, app.NewEditController)
}

// Run shows the list screen of app until the user quits or ctx ends.
//
// Besides the program it runs the list controller's event listener on an
// app.Events subscription and reloads the list when the preferences file or,
// with the fs adapter, a note file is changed by another process.
func Run(ctx context.Context, app *notelin.App, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := app.Logger()
	m := New(ctx, app)
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)...)

	events := app.Events.Subscribe(ctx)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		return m.list.Listen(ctx, events)
	})
	lifecycle.Go(ctx, func(ctx context.Context) error {
		forward(ctx, m.msgs, p)
		return nil
	})

	changes, err := app.Prefs.Watch(ctx)
	if err != nil {
		logger.Warn("preferences are not watched", "error", err)
	} else {
		lifecycle.Go(ctx, func(ctx context.Context) error {
			for range changes {
				logger.Debug("preferences changed on disk")
				m.notify.send(prefsChangedMsg{})
			}
			return nil
		})
	}

	edits, err := app.Store.Watch(ctx)
	switch {
	case errors.Is(err, core.ErrNotWatchable):
	case err != nil:
		logger.Warn("notes are not watched", "error", err)
	default:
		lifecycle.Go(ctx, func(ctx context.Context) error {
			for e := range edits {
				logger.Debug("note changed on disk", "event", e.String())
				m.notify.send(storeChangedMsg{event: e})
			}
			return nil
		})
	}

	logger.Info("tui started")
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	logger.Info("tui stopped", "error", err)
	return err
}
