// Package memory provides an in-memory, ordered implementation of core.Repository.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/mindpages/pkg/core"
)

// Repository keeps pages in a slice ordered front to back.
// It is safe for concurrent use.
type Repository struct {
	mu    sync.RWMutex
	pages []core.Page
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Insert places p at the front of the collection.
func (r *Repository) Insert(ctx context.Context, p core.Page) error {
	if p.ID == "" {
		return core.ErrEmptyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(p.ID) >= 0 {
		return fmt.Errorf("%w: %s", core.ErrDuplicateID, p.ID)
	}
	r.pages = append([]core.Page{p.Clone()}, r.pages...)
	return nil
}

// Get retrieves a page by ID.
func (r *Repository) Get(ctx context.Context, id string) (core.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return core.Page{}, fmt.Errorf("%w: %s", core.ErrPageNotFound, id)
	}
	return r.pages[i].Clone(), nil
}

// Replace overwrites the page with the same ID in place.
func (r *Repository) Replace(ctx context.Context, p core.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(p.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrPageNotFound, p.ID)
	}
	r.pages[i] = p.Clone()
	return nil
}

// Delete removes a page by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrPageNotFound, id)
	}
	r.pages = append(r.pages[:i], r.pages[i+1:]...)
	return nil
}

// List returns copies of all pages in collection order.
func (r *Repository) List(ctx context.Context) ([]core.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Page, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.Clone()
	}
	return out, nil
}

// Len returns the number of pages.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}

func (r *Repository) indexOf(id string) int {
	for i := range r.pages {
		if r.pages[i].ID == id {
			return i
		}
	}
	return -1
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Pages int `json:"pages"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	return RepositoryState{Pages: r.Len()}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
