package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortMethod names an ordering of the note list.
type SortMethod string

const (
	SortByDate SortMethod = "DATE"
	SortByName SortMethod = "NAME"
)

// DefaultSortMethod applies when no preference has been stored.
const DefaultSortMethod = SortByDate

// ParseSortMethod accepts the stored names as well as the lowercase CLI spelling.
func ParseSortMethod(s string) (SortMethod, error) {
	switch SortMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case SortByDate:
		return SortByDate, nil
	case SortByName:
		return SortByName, nil
	}
	return "", fmt.Errorf("unknown sort method %q", s)
}

// Comparator orders two notes, returning a negative number when a sorts first.
type Comparator func(a, b Note) int

// CompareByName orders case-insensitively by title, then by ID.
func CompareByName(a, b Note) int {
	if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// CompareByDate orders by ChangeDate, most recent first, then by ID.
func CompareByDate(a, b Note) int {
	if c := b.ChangeDate.Compare(a.ChangeDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Comparator returns the comparator implementing m. Unknown methods fall back
// to the default ordering.
func (m SortMethod) Comparator() Comparator {
	if m == SortByName {
		return CompareByName
	}
	return CompareByDate
}

// SortNotes sorts notes in place.
func SortNotes(notes []Note, m SortMethod) {
	slices.SortStableFunc(notes, m.Comparator())
}
