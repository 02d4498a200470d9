// Package controller holds the presentation logic of the list and edit
// screens.
//
// Controllers own state and talk to the store; views only render what they
// are told. A view is any type implementing ListView or EditView, so the same
// controllers drive the terminal UI, the CLI and the tests.
package controller

import (
	"context"
	"log/slog"

	"github.com/aretw0/notelin/pkg/core"
)

// ListView receives the results of ListController operations.
type ListView interface {
	OnNotesLoaded(notes []core.Note)
	OnAllNotesDeleted()
	OnNoteDeleted()
	OnSearchResult(notes []core.Note)
	OnViewUpdated()
	OpenNoteScreen(id int64, position int)

	ShowNoteContextDialog(position int)
	HideNoteContextDialog()
	ShowNoteDeleteDialog(position int)
	HideNoteDeleteDialog()
	ShowNoteInfoDialog(info string)
	HideNoteInfoDialog()

	OnError(err error)
}

// EditView receives the results of EditController operations.
type EditView interface {
	ShowNote(note core.Note)
	OnNoteSaved(note core.Note)
	OnNoteDeleted()

	ShowNoteDeleteDialog()
	HideNoteDeleteDialog()
	ShowNoteInfoDialog(info string)
	HideNoteInfoDialog()

	OnError(err error)
}

// Preferences is the persisted key/value store holding the sort method.
type Preferences interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Publisher announces note changes to other screens.
type Publisher interface {
	Publish(ctx context.Context, e core.Event) error
}

// Option configures a controller.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for a controller.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
