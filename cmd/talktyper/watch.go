package main

import (
	"context"
	"fmt"
	"log/slog"

	lcadapter "github.com/aretw0/talktyper/pkg/adapters/lifecycle"
	"github.com/aretw0/talktyper/pkg/core"
)

// watchStorage feeds external change events of the store's storage to fn
// until ctx is done.
func watchStorage(ctx context.Context, store *core.Store, fn func(core.Event)) error {
	w, ok := store.Storage().(core.Watchable)
	if !ok {
		return fmt.Errorf("storage does not support watching")
	}

	events, err := w.Watch(ctx, store.Key())
	if err != nil {
		return err
	}

	src := lcadapter.NewSource(events, core.EventExternal)
	if err := src.Start(ctx); err != nil {
		return err
	}

	for e := range src.Events() {
		ev, ok := e.(core.Event)
		if !ok {
			continue
		}
		slog.Debug("external change", "event", ev.String())
		fn(ev)
	}
	return nil
}
