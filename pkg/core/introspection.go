package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
// Counters cover successful mutations since the service was created.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	Watchable      bool   `json:"watchable"`
	Clock          string `json:"clock"` // "system" or "custom"
	NotesCreated   int64  `json:"notes_created"`
	NotesSaved     int64  `json:"notes_saved"`
	NotesDeleted   int64  `json:"notes_deleted"`
	StoreCleared   int64  `json:"store_cleared"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	repoType := "unknown"
	watchable := false
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
		_, watchable = s.repo.(Watchable)
	}

	clock := "system"
	if s.customClock {
		clock = "custom"
	}

	return ServiceState{
		RepositoryType: repoType,
		Watchable:      watchable,
		Clock:          clock,
		NotesCreated:   s.created.Load(),
		NotesSaved:     s.saved.Load(),
		NotesDeleted:   s.deleted.Load(),
		StoreCleared:   s.cleared.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
