package mindpages

import (
	"log/slog"
	"time"

	"github.com/aretw0/mindpages/internal/platform"
	"github.com/aretw0/mindpages/pkg/core"
	"github.com/aretw0/mindpages/pkg/draft"
)

// --- Types ---

// Page is a public alias for the page model.
type Page = core.Page

// Store is a public alias for the page store.
type Store = core.Store

// Synchronizer is a public alias for the draft synchronizer.
type Synchronizer = draft.Synchronizer

// --- Configuration ---

// Option defines a functional option for configuring MindPages.
type Option = platform.Option

// WithLogger sets the logger for the store and the synchronizer.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock replaces the system clock.
func WithClock(clock core.Clock) Option {
	return platform.WithClock(clock)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithEventBuffer allows specifying the size of each subscriber's event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithSamples loads the built-in sample pages.
func WithSamples(enabled bool) Option {
	return platform.WithSamples(enabled)
}

// WithSeedFile loads pages from a YAML fixture.
func WithSeedFile(path string) Option {
	return platform.WithSeedFile(path)
}

// WithQuiescence sets the idle time before an automatic commit.
func WithQuiescence(d time.Duration) Option {
	return platform.WithQuiescence(d)
}

// WithSwitchPolicy decides what happens to a dirty draft on page switch.
func WithSwitchPolicy(p draft.SwitchPolicy) Option {
	return platform.WithSwitchPolicy(p)
}

// WithOnCommit registers a callback invoked after each draft commit.
func WithOnCommit(fn func(core.Page)) Option {
	return platform.WithOnCommit(fn)
}

// --- Factory ---

// NewStore creates a page Store.
func NewStore(opts ...Option) (*core.Store, error) {
	return platform.NewStore(opts...)
}

// NewSynchronizer creates a draft Synchronizer that commits to store.
func NewSynchronizer(store *core.Store, opts ...Option) *draft.Synchronizer {
	return platform.NewSynchronizer(store, opts...)
}

// ParseSwitchPolicy maps "flush" or "discard" to a switch policy.
func ParseSwitchPolicy(name string) (draft.SwitchPolicy, error) {
	return platform.ParseSwitchPolicy(name)
}
