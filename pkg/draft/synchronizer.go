// Package draft buffers edits to a single page and commits them to the
// store once editing has paused.
//
// A Synchronizer moves between three states:
//
//	clean --field change--> dirty --quiescence timer or Flush--> committing
//	committing --done--> clean (or dirty when edits arrived meanwhile)
//
// Every field change restarts the quiescence timer, so at most one commit is
// pending per draft. Commits are serialized: a timer that fires while a
// commit or flush is running waits for it and then re-checks whether it is
// still current.
package draft

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/mindpages/pkg/core"
)

// DefaultQuiescence is the idle time after the last edit before an
// automatic commit.
const DefaultQuiescence = 2000 * time.Millisecond

// ErrNotEditing is returned by field changes when no page is loaded.
var ErrNotEditing = errors.New("no page is being edited")

// Status is the state of the draft machine.
type Status int

const (
	StatusClean Status = iota
	StatusDirty
	StatusCommitting
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusDirty:
		return "dirty"
	case StatusCommitting:
		return "committing"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// SwitchPolicy decides what BeginEditing does with a dirty draft that
// belongs to another page.
type SwitchPolicy int

const (
	// SwitchFlush commits the pending draft before loading the new page.
	SwitchFlush SwitchPolicy = iota
	// SwitchDiscard drops the pending draft.
	SwitchDiscard
)

// Committer applies a committed draft. *core.Store satisfies it.
type Committer interface {
	Update(ctx context.Context, p core.Page) (core.Page, error)
}

// Config holds the settings of a Synchronizer. Zero values select defaults.
type Config struct {
	Quiescence   time.Duration
	Clock        core.Clock
	Logger       *slog.Logger
	SwitchPolicy SwitchPolicy
	// OnCommit, if set, is called with the stored page after each commit.
	OnCommit func(core.Page)
}

// Synchronizer holds the draft of the page under edit.
type Synchronizer struct {
	committer  Committer
	clock      core.Clock
	logger     *slog.Logger
	quiescence time.Duration
	policy     SwitchPolicy
	onCommit   func(core.Page)

	// commitMu serializes commits, flushes and page switches.
	commitMu sync.Mutex

	mu         sync.Mutex
	editing    bool
	base       core.Page
	committed  fields
	draft      fields
	status     Status
	timer      core.Timer
	generation uint64
	commits    int
	lastCommit time.Time
}

// New creates a Synchronizer that commits through c.
func New(c Committer, config Config) *Synchronizer {
	if config.Quiescence <= 0 {
		config.Quiescence = DefaultQuiescence
	}
	if config.Clock == nil {
		config.Clock = core.SystemClock()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synchronizer{
		committer:  c,
		clock:      config.Clock,
		logger:     config.Logger,
		quiescence: config.Quiescence,
		policy:     config.SwitchPolicy,
		onCommit:   config.OnCommit,
	}
}

// BeginEditing seeds the draft from page and cancels any pending timer.
//
// A dirty draft of another page is flushed or discarded according to the
// switch policy before the new page loads. A dirty draft of the same page is
// always flushed, and the draft is then seeded from the record the flush
// stored rather than from page.
// BeginEditing must not be called from the Committer or OnCommit.
func (s *Synchronizer) BeginEditing(ctx context.Context, page core.Page) error {
	if page.ID == "" {
		return core.ErrEmptyID
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	dirty := s.editing && len(s.draft.diff(s.committed)) > 0
	prev := s.base.ID
	s.cancelTimerLocked()
	s.mu.Unlock()

	if dirty {
		if s.policy == SwitchDiscard && prev != page.ID {
			s.logger.Info("draft discarded on page switch", "id", prev, "next", page.ID)
		} else {
			saved, err := s.commit(ctx)
			if err != nil {
				return fmt.Errorf("failed to flush draft before editing %s: %w", page.ID, err)
			}
			// page was read before the flush; the stored record is newer.
			if saved && prev == page.ID {
				s.mu.Lock()
				page = s.base.Clone()
				s.mu.Unlock()
			}
		}
	}

	s.mu.Lock()
	s.editing = true
	s.base = page.Clone()
	s.committed = fieldsOf(page)
	s.draft = s.committed.clone()
	s.status = StatusClean
	s.mu.Unlock()

	s.logger.Debug("editing page", "id", page.ID)
	return nil
}

// OnFieldChange validates value and stores it in the draft, then restarts
// the quiescence timer. The store is not touched.
//
// Expected value types: string for title, body and folder; []string for
// tags; bool for starred.
func (s *Synchronizer) OnFieldChange(field Field, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeLocked(field, value)
}

// SetTitle is OnFieldChange(FieldTitle, title).
func (s *Synchronizer) SetTitle(title string) error {
	return s.OnFieldChange(FieldTitle, title)
}

// SetBody is OnFieldChange(FieldBody, body).
func (s *Synchronizer) SetBody(body string) error {
	return s.OnFieldChange(FieldBody, body)
}

// SetTags is OnFieldChange(FieldTags, tags).
func (s *Synchronizer) SetTags(tags []string) error {
	return s.OnFieldChange(FieldTags, tags)
}

// SetStarred is OnFieldChange(FieldStarred, starred).
func (s *Synchronizer) SetStarred(starred bool) error {
	return s.OnFieldChange(FieldStarred, starred)
}

// SetFolder is OnFieldChange(FieldFolder, folder).
func (s *Synchronizer) SetFolder(folder string) error {
	return s.OnFieldChange(FieldFolder, folder)
}

// AddTag appends tag to the draft tags unless it is already present.
func (s *Synchronizer) AddTag(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := append(append([]string{}, s.draft.Tags...), tag)
	return s.changeLocked(FieldTags, tags)
}

// RemoveTag drops tag from the draft tags.
func (s *Synchronizer) RemoveTag(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]string, 0, len(s.draft.Tags))
	for _, t := range s.draft.Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	return s.changeLocked(FieldTags, tags)
}

// ToggleStarred flips the draft starred flag.
func (s *Synchronizer) ToggleStarred() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeLocked(FieldStarred, !s.draft.Starred)
}

// Flush cancels the pending timer and commits now if the draft differs from
// the last committed values. It reports whether a commit happened.
func (s *Synchronizer) Flush(ctx context.Context) (bool, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if !s.editing {
		s.mu.Unlock()
		return false, nil
	}
	s.cancelTimerLocked()
	s.mu.Unlock()

	return s.commit(ctx)
}

// Close cancels the pending timer and stops editing without committing.
func (s *Synchronizer) Close() {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.editing = false
	s.status = StatusClean
}

// Status returns the current state of the draft machine.
func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// PageID returns the ID of the page under edit, or "" when idle.
func (s *Synchronizer) PageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ""
	}
	return s.base.ID
}

// Draft returns the page under edit with the draft values applied.
// The title is returned as typed, without the default substitution.
func (s *Synchronizer) Draft() (core.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return core.Page{}, false
	}
	p := s.draft.apply(s.base)
	p.Title = s.draft.Title
	return p, true
}

// Changed returns the fields that differ from the last committed values.
func (s *Synchronizer) Changed() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return nil
	}
	return s.draft.diff(s.committed)
}

// LastCommit returns the time of the most recent commit.
func (s *Synchronizer) LastCommit() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCommit
}

// Commits returns the number of commits performed.
func (s *Synchronizer) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Synchronizer) changeLocked(field Field, value any) error {
	if !s.editing {
		return ErrNotEditing
	}
	next := s.draft
	if err := next.set(field, value); err != nil {
		return err
	}
	s.draft = next
	if s.status != StatusCommitting {
		s.status = StatusDirty
	}
	s.scheduleLocked()
	return nil
}

func (s *Synchronizer) scheduleLocked() {
	s.cancelTimerLocked()
	gen := s.generation
	s.timer = s.clock.AfterFunc(s.quiescence, func() { s.fire(gen) })
}

// cancelTimerLocked stops the pending timer. Bumping the generation makes a
// callback that is already running ignore itself.
func (s *Synchronizer) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}

func (s *Synchronizer) fire(gen uint64) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if gen != s.generation || !s.editing {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	if _, err := s.commit(context.Background()); err != nil {
		s.logger.Error("autosave failed", "error", err)
	}
}

// commit writes the draft through the committer. commitMu must be held.
func (s *Synchronizer) commit(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if !s.editing {
		s.mu.Unlock()
		return false, nil
	}
	changed := s.draft.diff(s.committed)
	if len(changed) == 0 {
		if s.timer == nil {
			s.status = StatusClean
		}
		s.mu.Unlock()
		return false, nil
	}
	snapshot := s.draft.clone()
	page := snapshot.apply(s.base)
	s.status = StatusCommitting
	s.mu.Unlock()

	stored, err := s.committer.Update(ctx, page)

	s.mu.Lock()
	if err != nil {
		if errors.Is(err, core.ErrPageNotFound) {
			s.cancelTimerLocked()
			s.editing = false
			s.status = StatusClean
			s.mu.Unlock()
			s.logger.Warn("draft dropped, page no longer exists", "id", page.ID)
			return false, nil
		}
		s.status = StatusDirty
		s.mu.Unlock()
		return false, fmt.Errorf("failed to commit draft of %s: %w", page.ID, err)
	}

	s.base = stored
	s.committed = snapshot
	s.commits++
	s.lastCommit = s.clock.Now()
	if len(s.draft.diff(s.committed)) > 0 {
		s.status = StatusDirty
	} else {
		s.status = StatusClean
	}
	onCommit := s.onCommit
	s.mu.Unlock()

	s.logger.Debug("draft committed", "id", page.ID, "fields", changed)
	if onCommit != nil {
		onCommit(stored.Clone())
	}
	return true, nil
}
