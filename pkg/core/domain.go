package core

import "fmt"

// EventType represents the kind of change announced by the edit screen.
type EventType string

const (
	EventEdited  EventType = "EDITED"
	EventDeleted EventType = "DELETED"
)

// Event is published after a note changes outside the list screen.
// Position is the list position the edit session was opened from and is only
// a hint: the list may have shifted since. NoteID identifies the note itself.
type Event struct {
	Type     EventType
	Position int
	NoteID   int64
}

func (e Event) String() string {
	return fmt.Sprintf("%s note=%d position=%d", e.Type, e.NoteID, e.Position)
}
