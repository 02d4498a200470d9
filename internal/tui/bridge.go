package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/notelin/pkg/controller"
	"github.com/aretw0/notelin/pkg/core"
)

type (
	notesLoadedMsg  struct{ notes []core.Note }
	allDeletedMsg   struct{}
	listDeletedMsg  struct{}
	searchResultMsg struct{ notes []core.Note }
	viewUpdatedMsg  struct{}
	openNoteMsg     struct {
		id       int64
		position int
	}
	listDialogMsg struct {
		kind     dialog
		position int
		info     string
	}
	errorMsg struct{ err error }

	showNoteMsg    struct{ note core.Note }
	noteSavedMsg   struct{ note core.Note }
	editDeletedMsg struct{}
	editDialogMsg  struct {
		kind dialog
		info string
	}

	prefsChangedMsg struct{}
	storeChangedMsg struct{ event core.Event }
)

// bridge turns view callbacks into tea messages. Callbacks run on command or
// listener goroutines, never inside Update, so a full channel only blocks
// them until the program drains it or ctx ends.
type bridge struct {
	ctx context.Context
	out chan<- tea.Msg
}

func (b bridge) send(msg tea.Msg) {
	select {
	case b.out <- msg:
	case <-b.ctx.Done():
	}
}

func (b bridge) OnError(err error) { b.send(errorMsg{err: err}) }

// listBridge implements controller.ListView.
type listBridge struct{ bridge }

func (v listBridge) OnNotesLoaded(notes []core.Note)  { v.send(notesLoadedMsg{notes: notes}) }
func (v listBridge) OnAllNotesDeleted()               { v.send(allDeletedMsg{}) }
func (v listBridge) OnNoteDeleted()                   { v.send(listDeletedMsg{}) }
func (v listBridge) OnSearchResult(notes []core.Note) { v.send(searchResultMsg{notes: notes}) }
func (v listBridge) OnViewUpdated()                   { v.send(viewUpdatedMsg{}) }

func (v listBridge) OpenNoteScreen(id int64, position int) {
	v.send(openNoteMsg{id: id, position: position})
}

func (v listBridge) ShowNoteContextDialog(position int) {
	v.send(listDialogMsg{kind: dialogContext, position: position})
}
func (v listBridge) HideNoteContextDialog() { v.send(listDialogMsg{kind: dialogNone}) }

func (v listBridge) ShowNoteDeleteDialog(position int) {
	v.send(listDialogMsg{kind: dialogDelete, position: position})
}
func (v listBridge) HideNoteDeleteDialog() { v.send(listDialogMsg{kind: dialogNone}) }

func (v listBridge) ShowNoteInfoDialog(info string) {
	v.send(listDialogMsg{kind: dialogInfo, info: info})
}
func (v listBridge) HideNoteInfoDialog() { v.send(listDialogMsg{kind: dialogNone}) }

// editBridge implements controller.EditView.
type editBridge struct{ bridge }

func (v editBridge) ShowNote(note core.Note)    { v.send(showNoteMsg{note: note}) }
func (v editBridge) OnNoteSaved(note core.Note) { v.send(noteSavedMsg{note: note}) }
func (v editBridge) OnNoteDeleted()             { v.send(editDeletedMsg{}) }
func (v editBridge) ShowNoteDeleteDialog()      { v.send(editDialogMsg{kind: dialogDelete}) }
func (v editBridge) HideNoteDeleteDialog()      { v.send(editDialogMsg{kind: dialogNone}) }
func (v editBridge) ShowNoteInfoDialog(info string) {
	v.send(editDialogMsg{kind: dialogInfo, info: info})
}
func (v editBridge) HideNoteInfoDialog() { v.send(editDialogMsg{kind: dialogNone}) }

// sender is the part of *tea.Program that forward needs.
type sender interface {
	Send(msg tea.Msg)
}

// forward moves view messages into the program until ctx ends.
func forward(ctx context.Context, in <-chan tea.Msg, p sender) {
	for {
		select {
		case msg := <-in:
			p.Send(msg)
		case <-ctx.Done():
			return
		}
	}
}

var (
	_ controller.ListView = listBridge{}
	_ controller.EditView = editBridge{}
)
