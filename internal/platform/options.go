package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/mindpages/pkg/core"
	"github.com/aretw0/mindpages/pkg/draft"
)

// options holds the internal configuration for the MindPages components.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	clock      core.Clock
	adapter    string
	onCommit   func(core.Page)
	config     map[string]interface{}
}

// Option defines a functional option for configuring MindPages.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "memory",
		config:  make(map[string]interface{}),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the store and the synchronizer.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces the system clock (useful for testing).
func WithClock(clock core.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithRepository allows injecting a custom storage adapter.
// If provided, the adapter named by WithAdapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithEventBuffer sets the per-subscriber event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithSamples loads the built-in sample pages into a new store.
func WithSamples(enabled bool) Option {
	return func(o *options) {
		o.config["samples"] = enabled
	}
}

// WithSeedFile loads pages from a YAML fixture into a new store.
// It takes precedence over WithSamples.
func WithSeedFile(path string) Option {
	return func(o *options) {
		o.config["seed_file"] = path
	}
}

// WithQuiescence sets the idle time before an automatic commit.
// Zero means default (2s).
func WithQuiescence(d time.Duration) Option {
	return func(o *options) {
		o.config["quiescence"] = d
	}
}

// WithSwitchPolicy decides what happens to a dirty draft when another page
// is opened. Defaults to draft.SwitchFlush.
func WithSwitchPolicy(p draft.SwitchPolicy) Option {
	return func(o *options) {
		o.config["switch_policy"] = p
	}
}

// WithOnCommit registers a callback invoked after each draft commit.
func WithOnCommit(fn func(core.Page)) Option {
	return func(o *options) {
		o.onCommit = fn
	}
}
