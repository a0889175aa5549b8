package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultEventBuffer is the per-subscriber buffer used when none is configured.
const DefaultEventBuffer = 100

// Store holds the authoritative collection of pages and the current selection.
// All mutations go through its methods.
type Store struct {
	repo            Repository
	clock           Clock
	logger          *slog.Logger
	eventBufferSize int

	mu          sync.RWMutex
	selected    string
	subscribers map[int]chan Event
	nextSub     int
}

// StoreConfig holds the collaborators of a Store.
type StoreConfig struct {
	Clock       Clock
	Logger      *slog.Logger
	EventBuffer int
}

// NewStore creates a Store over repo. Zero values in config select defaults.
func NewStore(repo Repository, config StoreConfig) *Store {
	if config.Clock == nil {
		config.Clock = SystemClock()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultEventBuffer
	}
	return &Store{
		repo:            repo,
		clock:           config.Clock,
		logger:          config.Logger,
		eventBufferSize: config.EventBuffer,
		subscribers:     make(map[int]chan Event),
	}
}

// Create allocates an empty page, inserts it at the front and selects it.
func (s *Store) Create(ctx context.Context) (Page, error) {
	now := s.clock.Now()
	p := Page{
		ID:        uuid.NewString(),
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	if err := s.repo.Insert(ctx, p); err != nil {
		s.mu.Unlock()
		return Page{}, fmt.Errorf("failed to create page: %w", err)
	}
	s.selected = p.ID
	s.mu.Unlock()

	s.logger.Debug("page created", "id", p.ID)
	s.publish(EventCreate, p.ID)
	s.publish(EventSelect, p.ID)
	return p.Clone(), nil
}

// Load puts pages at the front of the collection, keeping their order, so
// that afterwards the collection starts with pages[0]. Pages without an ID
// get one. If nothing is selected, the first page becomes the selection.
// IDs are checked before anything is inserted: a duplicate, within pages or
// against the collection, fails with ErrDuplicateID and loads nothing.
func (s *Store) Load(ctx context.Context, pages ...Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepared := make([]Page, len(pages))
	seen := make(map[string]bool, len(pages))
	for i, p := range pages {
		p = p.Clone()
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if seen[p.ID] {
			return fmt.Errorf("failed to load page %s: %w", p.ID, ErrDuplicateID)
		}
		seen[p.ID] = true
		if _, err := s.repo.Get(ctx, p.ID); err == nil {
			return fmt.Errorf("failed to load page %s: %w", p.ID, ErrDuplicateID)
		} else if !errors.Is(err, ErrPageNotFound) {
			return fmt.Errorf("failed to load page %s: %w", p.ID, err)
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.clock.Now()
		}
		if p.UpdatedAt.Before(p.CreatedAt) {
			p.UpdatedAt = p.CreatedAt
		}
		p.Tags = NormalizeTags(p.Tags)
		prepared[i] = p
	}

	for i := len(prepared) - 1; i >= 0; i-- {
		if err := s.repo.Insert(ctx, prepared[i]); err != nil {
			return fmt.Errorf("failed to load page %s: %w", prepared[i].ID, err)
		}
	}

	if s.selected == "" && len(pages) > 0 {
		all, err := s.repo.List(ctx)
		if err != nil {
			return err
		}
		if len(all) > 0 {
			s.selected = all[0].ID
		}
	}
	return nil
}

// Get retrieves a page by ID.
func (s *Store) Get(ctx context.Context, id string) (Page, error) {
	if id == "" {
		return Page{}, ErrEmptyID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Page{}, err
	}
	return p.Clone(), nil
}

// List returns all pages in collection order.
func (s *Store) List(ctx context.Context) ([]Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.List(ctx)
}

// Update replaces the stored record matching p.ID and stamps UpdatedAt.
//
// CreatedAt is taken from the stored record, tags are normalized and an
// empty title becomes DefaultTitle. An unknown ID is logged and reported as
// ErrPageNotFound; the collection is left untouched.
func (s *Store) Update(ctx context.Context, p Page) (Page, error) {
	if p.ID == "" {
		return Page{}, ErrEmptyID
	}

	s.mu.Lock()
	current, err := s.repo.Get(ctx, p.ID)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, ErrPageNotFound) {
			s.logger.Warn("update of unknown page ignored", "id", p.ID)
		}
		return Page{}, err
	}

	updated := p.Clone()
	updated.CreatedAt = current.CreatedAt
	updated.Tags = NormalizeTags(updated.Tags)
	if strings.TrimSpace(updated.Title) == "" {
		updated.Title = DefaultTitle
	}
	updated.UpdatedAt = s.stamp(current)

	if err := s.repo.Replace(ctx, updated); err != nil {
		s.mu.Unlock()
		return Page{}, fmt.Errorf("failed to update page %s: %w", p.ID, err)
	}
	s.mu.Unlock()

	s.logger.Debug("page updated", "id", updated.ID, "title", updated.Title)
	s.publish(EventModify, updated.ID)
	return updated.Clone(), nil
}

// ToggleStar flips the starred flag and stamps UpdatedAt.
func (s *Store) ToggleStar(ctx context.Context, id string) (Page, error) {
	if id == "" {
		return Page{}, ErrEmptyID
	}

	s.mu.Lock()
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return Page{}, err
	}
	p.Starred = !p.Starred
	p.UpdatedAt = s.stamp(p)
	if err := s.repo.Replace(ctx, p); err != nil {
		s.mu.Unlock()
		return Page{}, fmt.Errorf("failed to toggle star on %s: %w", id, err)
	}
	s.mu.Unlock()

	s.logger.Debug("page star toggled", "id", id, "starred", p.Starred)
	s.publish(EventModify, id)
	return p.Clone(), nil
}

// Delete removes a page. If it was the selection, the first remaining page
// is selected, or nothing when the collection is empty.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	if err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return err
	}

	reselected := false
	if s.selected == id {
		s.selected = ""
		remaining, err := s.repo.List(ctx)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to reselect after delete: %w", err)
		}
		if len(remaining) > 0 {
			s.selected = remaining[0].ID
		}
		reselected = true
	}
	selected := s.selected
	s.mu.Unlock()

	s.logger.Debug("page deleted", "id", id)
	s.publish(EventDelete, id)
	if reselected {
		s.publish(EventSelect, selected)
	}
	return nil
}

// Select makes the page with the given ID the current selection.
// An empty ID clears the selection.
func (s *Store) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	if id != "" {
		if _, err := s.repo.Get(ctx, id); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.selected = id
	s.mu.Unlock()

	s.publish(EventSelect, id)
	return nil
}

// Selected returns the selected page, if any.
func (s *Store) Selected(ctx context.Context) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == "" {
		return Page{}, false
	}
	p, err := s.repo.Get(ctx, s.selected)
	if err != nil {
		return Page{}, false
	}
	return p.Clone(), true
}

// Watch subscribes to store events until ctx is done.
// A subscriber that falls behind by more than the event buffer loses events.
func (s *Store) Watch(ctx context.Context) <-chan Event {
	ch := make(chan Event, s.eventBufferSize)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subscribers, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

func (s *Store) publish(t EventType, id string) {
	e := Event{Type: t, ID: id, Timestamp: s.clock.Now().Unix()}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- e:
		default:
			s.logger.Debug("event dropped, subscriber is full", "event", e.String())
		}
	}
}

// stamp returns the time to record as UpdatedAt, never earlier than CreatedAt.
func (s *Store) stamp(p Page) time.Time {
	now := s.clock.Now()
	if now.Before(p.CreatedAt) {
		return p.CreatedAt
	}
	return now
}
