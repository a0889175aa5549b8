package draft

import (
	"time"

	"github.com/aretw0/introspection"
)

// SynchronizerState exposes internal state for observability.
type SynchronizerState struct {
	PageID     string     `json:"page_id,omitempty"`
	Status     string     `json:"status"`
	Pending    bool       `json:"pending"`
	Changed    []Field    `json:"changed,omitempty"`
	Commits    int        `json:"commits"`
	LastCommit *time.Time `json:"last_commit,omitempty"`
	Quiescence string     `json:"quiescence"`
}

// State implements introspection.Introspectable.
func (s *Synchronizer) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SynchronizerState{
		Status:     s.status.String(),
		Pending:    s.timer != nil,
		Commits:    s.commits,
		Quiescence: s.quiescence.String(),
	}
	if s.editing {
		state.PageID = s.base.ID
		state.Changed = s.draft.diff(s.committed)
	}
	if !s.lastCommit.IsZero() {
		last := s.lastCommit
		state.LastCommit = &last
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Synchronizer) ComponentType() string {
	return "draft-synchronizer"
}

var _ introspection.Introspectable = (*Synchronizer)(nil)
var _ introspection.Component = (*Synchronizer)(nil)
