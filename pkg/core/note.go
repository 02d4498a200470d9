package core

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTitle is the placeholder title given to freshly created notes.
const DefaultTitle = "New note"

// infoDateLayout is used by Info when rendering timestamps.
const infoDateLayout = "02 Jan 2006 15:04"

// Note is the central entity of the domain.
// It represents a short user-authored text identified by a store-assigned ID.
// An ID of zero means the note has not been persisted yet.
type Note struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	CreatedDate time.Time `json:"created_date"`
	ChangeDate  time.Time `json:"change_date"`
}

// HasID reports whether the note has been persisted at least once.
func (n Note) HasID() bool {
	return n.ID != 0
}

// Touch records a modification at now.
// ChangeDate always moves strictly forward and never precedes CreatedDate,
// even when the clock is coarse or steps backwards.
func (n *Note) Touch(now time.Time) {
	floor := n.ChangeDate
	if n.CreatedDate.After(floor) {
		floor = n.CreatedDate
	}
	if !now.After(floor) {
		now = floor.Add(time.Nanosecond)
	}
	n.ChangeDate = now
}

// Info renders the note summary shown by the info dialogs.
func (n Note) Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", n.Title)
	fmt.Fprintf(&b, "Created: %s\n", n.CreatedDate.Local().Format(infoDateLayout))
	fmt.Fprintf(&b, "Changed: %s", n.ChangeDate.Local().Format(infoDateLayout))
	return b.String()
}
