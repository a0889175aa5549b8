package core

import (
	"context"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Pages           int    `json:"pages"`
	Selected        string `json:"selected,omitempty"`
	Subscribers     int    `json:"subscribers"`
	EventBufferSize int    `json:"event_buffer_size"`
	RepositoryType  string `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	count := 0
	if pages, err := s.repo.List(context.Background()); err == nil {
		count = len(pages)
	}

	return StoreState{
		Pages:           count,
		Selected:        s.selected,
		Subscribers:     len(s.subscribers),
		EventBufferSize: s.eventBufferSize,
		RepositoryType:  repoType,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
