package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/talktyper/pkg/core"
)

// Watch reports changes made to key's file by anyone, this process included.
// Bursts of filesystem events are coalesced into one core.EventExternal.
// The channel is closed when ctx is cancelled.
func (s *Storage) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return s.WatchPattern(ctx, key+s.config.Ext)
}

// WatchPattern is like Watch but matches file names against a doublestar
// pattern (e.g. "*.json"). The emitted event Key is the file name without
// its extension.
func (s *Storage) WatchPattern(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the file inode.
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	events := make(chan core.Event)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer s.setWatcherActive(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, pattern, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.handleWatchError(fmt.Errorf("watcher failed: %w", err))
	}))

	return events, nil
}

func (s *Storage) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, out chan<- core.Event) error {
	timer := time.NewTimer(s.config.Debounce)
	timer.Stop()
	var pending *core.Event

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			e, matched := s.mapEvent(event, pattern)
			if !matched {
				continue
			}
			s.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			pending = &e
			timer.Reset(s.config.Debounce)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			s.handleWatchError(wErr)

		case <-timer.C:
			if pending == nil {
				continue
			}
			select {
			case out <- *pending:
				s.recordEvent()
			case <-ctx.Done():
				return nil
			}
			pending = nil
		}
	}
}

func (s *Storage) mapEvent(event fsnotify.Event, pattern string) (core.Event, bool) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return core.Event{}, false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return core.Event{}, false
	}
	if ok, _ := doublestar.Match(pattern, base); !ok {
		return core.Event{}, false
	}

	return core.Event{
		Type:      core.EventExternal,
		Key:       strings.TrimSuffix(base, filepath.Ext(base)),
		Index:     -1,
		Timestamp: time.Now().Unix(),
	}, true
}

func (s *Storage) handleWatchError(err error) {
	s.config.Logger.Error("fsnotify error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}
