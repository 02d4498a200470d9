package main

import (
	"github.com/aretw0/notelin/pkg/core"
)

// listView captures list controller callbacks for one-shot commands.
type listView struct {
	notes    []core.Note
	openedID int64
	info     string
}

func (v *listView) OnNotesLoaded(notes []core.Note)  { v.notes = notes }
func (v *listView) OnAllNotesDeleted()               { v.notes = nil }
func (v *listView) OnNoteDeleted()                   {}
func (v *listView) OnSearchResult(notes []core.Note) { v.notes = notes }
func (v *listView) OnViewUpdated()                   {}
func (v *listView) OpenNoteScreen(id int64, _ int)   { v.openedID = id }
func (v *listView) ShowNoteContextDialog(int)        {}
func (v *listView) HideNoteContextDialog()           {}
func (v *listView) ShowNoteDeleteDialog(int)         {}
func (v *listView) HideNoteDeleteDialog()            {}
func (v *listView) ShowNoteInfoDialog(info string)   { v.info = info }
func (v *listView) HideNoteInfoDialog()              {}

// Errors are returned by the controller as well; the command reports them.
func (v *listView) OnError(error) {}

// editView captures edit controller callbacks for one-shot commands.
type editView struct {
	note core.Note
	info string
}

func (v *editView) ShowNote(note core.Note)        { v.note = note }
func (v *editView) OnNoteSaved(note core.Note)     { v.note = note }
func (v *editView) OnNoteDeleted()                 {}
func (v *editView) ShowNoteDeleteDialog()          {}
func (v *editView) HideNoteDeleteDialog()          {}
func (v *editView) ShowNoteInfoDialog(info string) { v.info = info }
func (v *editView) HideNoteInfoDialog()            {}
func (v *editView) OnError(error)                  {}
