package fs

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string `json:"path"`
	CacheSize     int    `json:"cache_size"`
	NextID        int64  `json:"next_id"`
	Writes        int    `json:"writes"`
	MustExist     bool   `json:"must_exist"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		CacheSize:     r.cache.Len(),
		NextID:        r.cache.NextID(),
		Writes:        r.writes,
		MustExist:     r.config.MustExist,
		WatcherActive: r.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
