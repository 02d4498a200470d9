// Package tui is the interactive terminal front end: a list screen and an
// edit screen drawn with bubbletea on top of the note controllers.
//
// Controllers never run inside Update. Every user action becomes a tea.Cmd
// that calls a controller; the controller answers through its view, which
// forwards the callback into the program as a message.
package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/notelin/pkg/controller"
	"github.com/aretw0/notelin/pkg/core"
)

// msgBuffer is the capacity of the channel between the views and the program.
const msgBuffer = 64

type screen int

const (
	screenList screen = iota
	screenEdit
)

type dialog int

const (
	dialogNone dialog = iota
	dialogContext
	dialogDelete
	dialogInfo
	dialogDeleteAll
)

const (
	focusTitle = iota
	focusBody
)

// statusMsg is returned directly by commands, outside the view channel.
type statusMsg struct {
	text string
	err  bool
}

// sortedMsg reports the ordering applied by a sort toggle.
type sortedMsg struct{ method core.SortMethod }

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	msgs   chan tea.Msg
	notify bridge
	list   *controller.ListController
	edit   *controller.EditController

	screen screen
	notes  []core.Note
	cursor int
	method core.SortMethod

	searching bool
	query     string
	search    textinput.Model

	dialog   dialog
	dialogID int64
	info     string

	editing core.Note
	title   textinput.Model
	body    textarea.Model
	focus   int

	status string
	failed bool
	width  int
	height int
}

// Factories building the controllers a Model drives around its own views.
type (
	ListControllerFactory func(controller.ListView) *controller.ListController
	EditControllerFactory func(controller.EditView) *controller.EditController
)

// NewModel creates a Model whose views report into an internal channel.
// ctx bounds every controller call and every pending view callback.
func NewModel(ctx context.Context, newList ListControllerFactory, newEdit EditControllerFactory) Model {
	msgs := make(chan tea.Msg, msgBuffer)
	b := bridge{ctx: ctx, out: msgs}
	list := newList(listBridge{b})

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search titles"
	search.Cursor.SetMode(cursor.CursorStatic)

	title := textinput.New()
	title.Prompt = "Title: "
	title.Placeholder = core.DefaultTitle
	title.Cursor.SetMode(cursor.CursorStatic)

	body := textarea.New()
	body.Placeholder = "Write your note"
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		ctx:    ctx,
		msgs:   msgs,
		notify: b,
		list:   list,
		edit:   newEdit(editBridge{b}),
		method: list.SortMethod(),
		search: search,
		title:  title,
		body:   body,
	}
}

// Init loads the notes.
func (m Model) Init() tea.Cmd {
	return m.run(m.list.LoadAll)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.body.SetWidth(max(msg.Width-2, 20))
		m.body.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenEdit {
			return m.handleEditKey(msg)
		}
		return m.handleListKey(msg)

	case notesLoadedMsg:
		if m.query != "" {
			return m, m.refresh()
		}
		m.setNotes(msg.notes)
	case searchResultMsg:
		m.setNotes(msg.notes)
	case viewUpdatedMsg:
		return m, m.refresh()
	case listDeletedMsg:
		m.setStatus("Note deleted")
		return m, m.refresh()
	case allDeletedMsg:
		m.dialog = dialogNone
		m.setStatus("All notes deleted")
		return m, m.refresh()
	case listDialogMsg:
		m.dialog = msg.kind
		m.info = msg.info
		if msg.kind == dialogNone {
			m.info = ""
		}
	case openNoteMsg:
		m.screen = screenEdit
		m.dialog = dialogNone
		m.editing = core.Note{}
		m.title.SetValue("")
		m.body.SetValue("")
		edit, ctx := m.edit, m.ctx
		return m, func() tea.Msg {
			_ = edit.Open(ctx, msg.id, msg.position)
			return nil
		}
	case errorMsg:
		m.status, m.failed = msg.err.Error(), true
	case prefsChangedMsg:
		return m, m.run(m.list.LoadAll)

	case storeChangedMsg:
		// New files are not in the list yet, so reload rather than patch.
		return m, m.run(m.list.LoadAll)

	case showNoteMsg:
		m.editing = msg.note
		m.title.SetValue(msg.note.Title)
		m.body.SetValue(msg.note.Text)
		m.dialog = dialogNone
		m.setFocus(focusTitle)
		m.setStatus("")
	case noteSavedMsg:
		m.leaveEditor()
		m.setStatus("Saved " + msg.note.Title)
	case editDeletedMsg:
		m.leaveEditor()
		m.setStatus("Note deleted")
	case editDialogMsg:
		m.dialog = msg.kind
		m.info = msg.info

	case sortedMsg:
		m.method = msg.method
	case statusMsg:
		m.status, m.failed = msg.text, msg.err
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.dialog {
	case dialogContext:
		switch key {
		case "enter", "o":
			return m, m.withNote(m.dialogID, func(ctx context.Context, position int) error {
				m.list.HideNoteContextDialog()
				return m.list.OpenNote(position)
			})
		case "d":
			return m, m.withNote(m.dialogID, func(ctx context.Context, position int) error {
				m.list.HideNoteContextDialog()
				return m.list.ShowNoteDeleteDialog(position)
			})
		case "i":
			return m, m.withNote(m.dialogID, func(ctx context.Context, position int) error {
				m.list.HideNoteContextDialog()
				return m.list.ShowNoteInfo(position)
			})
		case "esc", "q":
			return m, m.run(func(context.Context) error {
				m.list.HideNoteContextDialog()
				return nil
			})
		}
		return m, nil

	case dialogDelete:
		switch key {
		case "y", "enter":
			return m, m.withNote(m.dialogID, func(ctx context.Context, position int) error {
				m.list.HideNoteDeleteDialog()
				return m.list.DeleteAt(ctx, position)
			})
		case "n", "esc", "q":
			return m, m.run(func(context.Context) error {
				m.list.HideNoteDeleteDialog()
				return nil
			})
		}
		return m, nil

	case dialogInfo:
		return m, m.run(func(context.Context) error {
			m.list.HideNoteInfoDialog()
			return nil
		})

	case dialogDeleteAll:
		if key == "y" {
			m.dialog = dialogNone
			return m, m.run(m.list.DeleteAll)
		}
		m.dialog = dialogNone
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.notes)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(m.notes)-1, 0)
	case "n":
		return m, m.run(func(ctx context.Context) error {
			_, err := m.list.CreateAndOpen(ctx)
			return err
		})
	case "enter":
		cmd := m.withSelected(func(ctx context.Context, position int) error {
			return m.list.OpenNote(position)
		})
		return m, cmd
	case "d", "x":
		cmd := m.withSelected(func(ctx context.Context, position int) error {
			return m.list.ShowNoteDeleteDialog(position)
		})
		return m, cmd
	case "i":
		cmd := m.withSelected(func(ctx context.Context, position int) error {
			return m.list.ShowNoteInfo(position)
		})
		return m, cmd
	case "m":
		cmd := m.withSelected(func(ctx context.Context, position int) error {
			return m.list.ShowNoteContextDialog(position)
		})
		return m, cmd
	case "s":
		list := m.list
		return m, func() tea.Msg {
			next := core.SortByName
			if list.SortMethod() == core.SortByName {
				next = core.SortByDate
			}
			if err := list.SortBy(next); err != nil {
				return nil
			}
			return sortedMsg{method: next}
		}
	case "/":
		m.searching = true
		m.search.SetValue(m.query)
		cmd := m.search.Focus()
		return m, cmd
	case "X":
		if len(m.notes) > 0 {
			m.dialog = dialogDeleteAll
		}
	case "esc":
		if m.query != "" {
			m.query = ""
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == m.query {
		return m, cmd
	}
	m.query = m.search.Value()
	return m, tea.Batch(cmd, m.refresh())
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.dialog {
	case dialogDelete:
		switch key {
		case "y", "enter":
			return m, m.run(func(ctx context.Context) error {
				m.edit.HideNoteDeleteDialog()
				return m.edit.Delete(ctx)
			})
		case "n", "esc":
			return m, m.run(func(context.Context) error {
				m.edit.HideNoteDeleteDialog()
				return nil
			})
		}
		return m, nil
	case dialogInfo:
		return m, m.run(func(context.Context) error {
			m.edit.HideNoteInfoDialog()
			return nil
		})
	}

	switch key {
	case "esc":
		m.leaveEditor()
		m.setStatus("Changes discarded")
		return m, nil
	case "tab":
		m.setFocus(1 - m.focus)
		return m, nil
	case "ctrl+s":
		title, text := m.title.Value(), m.body.Value()
		return m, m.run(func(ctx context.Context) error {
			return m.edit.Save(ctx, title, text)
		})
	case "ctrl+d":
		return m, m.run(func(context.Context) error {
			return m.edit.ShowNoteDeleteDialog()
		})
	case "ctrl+g":
		return m, m.run(func(context.Context) error {
			return m.edit.ShowNoteInfoDialog()
		})
	}

	var cmd tea.Cmd
	if m.focus == focusTitle {
		if key == "enter" {
			m.setFocus(focusBody)
			return m, nil
		}
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

// run calls fn on a command goroutine. Failures reach the model through
// OnError, so the returned error is dropped.
func (m Model) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = fn(ctx)
		return nil
	}
}

// withNote resolves the current collection position of note id right before
// calling fn. The rendered list may be a search result or lag behind the
// controller, so rendered indexes are never passed to it.
func (m Model) withNote(id int64, fn func(ctx context.Context, position int) error) tea.Cmd {
	ctx, list := m.ctx, m.list
	return func() tea.Msg {
		position := slices.IndexFunc(list.Notes(), func(n core.Note) bool { return n.ID == id })
		if position < 0 {
			return statusMsg{text: core.NotFoundError(id).Error(), err: true}
		}
		_ = fn(ctx, position)
		return nil
	}
}

func (m *Model) withSelected(fn func(ctx context.Context, position int) error) tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.notes) {
		return nil
	}
	id := m.notes[m.cursor].ID
	m.dialogID = id
	return m.withNote(id, fn)
}

// refresh re-runs the current search; an empty query yields every note.
func (m Model) refresh() tea.Cmd {
	list, query := m.list, m.query
	return func() tea.Msg {
		list.Search(query)
		return nil
	}
}

func (m *Model) setNotes(notes []core.Note) {
	m.notes = notes
	if m.cursor >= len(notes) {
		m.cursor = max(len(notes)-1, 0)
	}
}

func (m *Model) setStatus(text string) {
	m.status, m.failed = text, false
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	if focus == focusTitle {
		m.body.Blur()
		m.title.Focus()
		return
	}
	m.title.Blur()
	m.body.Focus()
}

func (m *Model) leaveEditor() {
	m.screen = screenList
	m.dialog = dialogNone
	m.info = ""
	m.title.Blur()
	m.body.Blur()
}
