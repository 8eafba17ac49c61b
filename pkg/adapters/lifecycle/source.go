// Package lifecycle exposes note store events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/talktyper/pkg/core"
)

type historySource struct {
	events <-chan core.Event
	types  []core.EventType
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source emitting history changes read from
// events, typically Store.Subscribe or Watchable.Watch. When types are given
// only those kinds of change are forwarded.
func NewSource(events <-chan core.Event, types ...core.EventType) lifecycle.Source {
	return &historySource{
		events: events,
		types:  types,
		out:    make(chan lifecycle.Event),
	}
}

func (s *historySource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *historySource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			var ok bool
			select {
			case <-ctx.Done():
				return nil
			case e, ok = <-s.events:
				if !ok {
					return nil
				}
			}
			if len(s.types) > 0 && !slices.Contains(s.types, e.Type) {
				continue
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}
