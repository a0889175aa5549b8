// Package lifecycle bridges store events to the lifecycle event model.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/mindpages/pkg/core"
)

// PageEvent is a store event as seen by lifecycle consumers.
type PageEvent struct {
	core.Event
}

// String renders the event for humans, e.g. "page created 42" or
// "selection cleared".
func (e PageEvent) String() string {
	switch e.Type {
	case core.EventCreate:
		return "page created " + e.ID
	case core.EventModify:
		return "page modified " + e.ID
	case core.EventDelete:
		return "page deleted " + e.ID
	case core.EventSelect:
		if e.ID == "" {
			return "selection cleared"
		}
		return "page selected " + e.ID
	default:
		return e.Event.String()
	}
}

// SourceOption configures a store source.
type SourceOption func(*storeSource)

// WithTypes forwards only events of the given types.
func WithTypes(types ...core.EventType) SourceOption {
	return func(s *storeSource) {
		s.types = make(map[core.EventType]bool, len(types))
		for _, t := range types {
			s.types[t] = true
		}
	}
}

type storeSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	types  map[core.EventType]bool
}

// NewSource creates a lifecycle.Source that emits store events as PageEvent
// values. Pass the channel returned by core.Store.Watch.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &storeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the store channel closes,
// then closes the output channel.
func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.types != nil && !s.types[e.Type] {
					continue
				}
				select {
				case s.out <- PageEvent{Event: e}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
