package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/mindpages/pkg/adapters/memory"
	"github.com/aretw0/mindpages/pkg/adapters/seed"
	"github.com/aretw0/mindpages/pkg/core"
	"github.com/aretw0/mindpages/pkg/draft"
)

// NewStore builds a Store on the configured adapter and seeds it.
//
//	store, err := mindpages.NewStore(mindpages.WithSamples(true))
func NewStore(opts ...Option) (*core.Store, error) {
	o := applyOptions(opts)

	repo, err := openRepository(o)
	if err != nil {
		return nil, err
	}

	eventBuffer, _ := o.config["event_buffer"].(int)
	store := core.NewStore(repo, core.StoreConfig{
		Clock:       o.clock,
		Logger:      o.logger,
		EventBuffer: eventBuffer,
	})

	pages, err := seedPages(o)
	if err != nil {
		return nil, err
	}
	if len(pages) > 0 {
		if err := store.Load(context.Background(), pages...); err != nil {
			return nil, err
		}
		o.log().Debug("store seeded", "pages", len(pages))
	}

	return store, nil
}

// NewSynchronizer builds a draft Synchronizer committing to store.
func NewSynchronizer(store *core.Store, opts ...Option) *draft.Synchronizer {
	o := applyOptions(opts)

	quiescence, _ := o.config["quiescence"].(time.Duration)
	policy, _ := o.config["switch_policy"].(draft.SwitchPolicy)

	return draft.New(store, draft.Config{
		Quiescence:   quiescence,
		Clock:        o.clock,
		Logger:       o.logger,
		SwitchPolicy: policy,
		OnCommit:     o.onCommit,
	})
}

// ParseSwitchPolicy maps "flush" or "discard" to a draft.SwitchPolicy.
func ParseSwitchPolicy(name string) (draft.SwitchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flush":
		return draft.SwitchFlush, nil
	case "discard":
		return draft.SwitchDiscard, nil
	default:
		return 0, fmt.Errorf("unknown switch policy: %s", name)
	}
}

func openRepository(o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}
	switch o.adapter {
	case "memory":
		return memory.NewRepository(), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

func seedPages(o *options) ([]core.Page, error) {
	now := o.now()
	if path, _ := o.config["seed_file"].(string); path != "" {
		pages, err := seed.LoadFile(path, now)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		return pages, nil
	}
	if samples, _ := o.config["samples"].(bool); samples {
		return seed.Samples(now), nil
	}
	return nil, nil
}

func (o *options) now() time.Time {
	if o.clock != nil {
		return o.clock.Now()
	}
	return time.Now()
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
