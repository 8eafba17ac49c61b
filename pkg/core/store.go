package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultKey is the well-known storage key holding the history blob.
const DefaultKey = "notesHistory"

const defaultEventBuffer = 16

// Store owns the in-memory note history and keeps the persisted blob in sync.
// It is the single source of truth for a session: construct it once and pass
// it to whichever component needs to read or mutate the history.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	codec   Codec
	key     string
	logger  *slog.Logger
	layout  string
	now     func() time.Time

	notes []Note
	dirty bool

	renderers   []Renderer
	subs        map[int]chan Event
	nextSub     int
	eventBuffer int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey sets the storage key. Defaults to DefaultKey.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer registers a presentation collaborator.
func WithRenderer(r Renderer) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.renderers = append(s.renderers, r)
		}
	}
}

// WithTimestampLayout sets the layout used by Stamp.
func WithTimestampLayout(layout string) StoreOption {
	return func(s *Store) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// WithClock overrides the time source used by Stamp.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEventBuffer sets the channel size handed to subscribers.
func WithEventBuffer(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.eventBuffer = size
		}
	}
}

// NewStore creates a Store backed by storage, encoding the history with codec.
// The history is empty until Initialize is called.
func NewStore(storage Storage, codec Codec, opts ...StoreOption) *Store {
	s := &Store{
		storage:     storage,
		codec:       codec,
		key:         DefaultKey,
		logger:      slog.Default(),
		layout:      DefaultTimestampLayout,
		now:         time.Now,
		notes:       []Note{},
		subs:        make(map[int]chan Event),
		eventBuffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key of the history blob.
func (s *Store) Key() string {
	return s.key
}

// Storage returns the backing storage, e.g. to check for Watchable.
func (s *Store) Storage() Storage {
	return s.storage
}

// Stamp returns the current time formatted with the store's layout.
func (s *Store) Stamp() string {
	return Timestamp(s.now(), s.layout)
}

// Initialize reads the persisted history. An absent key or malformed content
// yields an empty history without error; only storage failures are returned.
func (s *Store) Initialize(ctx context.Context) ([]Note, error) {
	notes, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.notes = notes
	s.dirty = false
	s.mu.Unlock()

	return slices.Clone(notes), nil
}

// Reload re-reads the persisted history, replacing the in-memory one, and
// re-renders. It is used when the blob changed outside this store.
// A dirty store refuses with ErrDirty: its unsaved notes win until Flush.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.dirty {
		s.mu.Unlock()
		return fmt.Errorf("reload %s: %w", s.key, ErrDirty)
	}
	notes, err := s.read(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.notes = notes
	s.dirty = false
	view := s.reversedLocked()
	s.mu.Unlock()

	s.notify(view, s.event(EventReload, -1))
	return nil
}

func (s *Store) read(ctx context.Context) ([]Note, error) {
	data, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	notes, err := s.codec.Decode(data)
	if err != nil {
		s.logger.Warn("malformed history, starting empty", "key", s.key, "codec", s.codec.Name(), "error", err)
		return []Note{}, nil
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes, nil
}

// Append inserts a note at the end of the history and persists it.
// Empty text is accepted: a voice capture may legitimately yield nothing.
func (s *Store) Append(ctx context.Context, timestamp, text string) error {
	_, err := s.Push(ctx, timestamp, text)
	return err
}

// Push is Append reporting the index the note landed at. The index is valid
// even when persisting failed.
func (s *Store) Push(ctx context.Context, timestamp, text string) (int, error) {
	s.mu.Lock()
	s.notes = append(s.notes, Note{Timestamp: timestamp, Transcription: text})
	idx := len(s.notes) - 1
	err := s.persistLocked(ctx)
	view := s.reversedLocked()
	s.mu.Unlock()

	s.notify(view, s.event(EventAppend, idx))
	return idx, err
}

// AppendManual trims raw and appends it. Input that is empty after trimming
// is silently dropped and reported as added=false.
func (s *Store) AppendManual(ctx context.Context, timestamp, raw string) (added bool, err error) {
	_, added, err = s.PushManual(ctx, timestamp, raw)
	return added, err
}

// PushManual is AppendManual reporting the index of the added note.
func (s *Store) PushManual(ctx context.Context, timestamp, raw string) (index int, added bool, err error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return -1, false, nil
	}
	index, err = s.Push(ctx, timestamp, text)
	return index, true, err
}

// Update replaces the transcription at index, leaving its timestamp untouched.
func (s *Store) Update(ctx context.Context, index int, text string) error {
	_, err := s.Replace(ctx, index, text)
	return err
}

// Replace is Update returning the note as written.
func (s *Store) Replace(ctx context.Context, index int, text string) (Note, error) {
	s.mu.Lock()
	if err := s.checkLocked("update", index); err != nil {
		s.mu.Unlock()
		return Note{}, err
	}
	s.notes[index].Transcription = text
	note := s.notes[index]
	err := s.persistLocked(ctx)
	view := s.reversedLocked()
	s.mu.Unlock()

	s.notify(view, s.event(EventUpdate, index))
	return note, err
}

// Remove deletes the note at index; later notes shift down by one.
// Confirmation, if any, is the caller's concern.
func (s *Store) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	if err := s.checkLocked("remove", index); err != nil {
		s.mu.Unlock()
		return err
	}
	s.notes = slices.Delete(s.notes, index, index+1)
	err := s.persistLocked(ctx)
	view := s.reversedLocked()
	s.mu.Unlock()

	s.notify(view, s.event(EventRemove, index))
	return err
}

// Clear empties the history and removes the persisted blob entirely.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.notes = []Note{}
	err := s.track(s.storage.Remove(ctx, s.key))
	s.mu.Unlock()

	s.notify([]Note{}, s.event(EventClear, -1))
	return err
}

// Flush writes the in-memory history again. It repairs divergence left by a
// failed write. A flushed empty history is stored as an empty sequence.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// Render hands the current history to every renderer without mutating it.
func (s *Store) Render() {
	s.mu.RLock()
	view := s.reversedLocked()
	s.mu.RUnlock()
	s.render(view)
}

// Notes returns a copy of the history in insertion order.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Reversed returns a copy of the history, most recent first.
func (s *Store) Reversed() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reversedLocked()
}

// Get returns the note at index.
func (s *Store) Get(index int) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkLocked("get", index); err != nil {
		return Note{}, err
	}
	return s.notes[index], nil
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Dirty reports whether the last write failed and the persisted blob lags
// behind the in-memory history.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Subscribe returns a channel receiving every change event. Events are
// dropped for subscribers that fall behind. Call cancel to unsubscribe.
func (s *Store) Subscribe() (events <-chan Event, cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, s.eventBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close ends all subscriptions and closes the storage when it holds resources.
func (s *Store) Close() error {
	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	if c, ok := s.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) checkLocked(op string, index int) error {
	if index < 0 || index >= len(s.notes) {
		return fmt.Errorf("%s %d of %d: %w", op, index, len(s.notes), ErrIndexOutOfRange)
	}
	return nil
}

// persistLocked writes the whole history, an empty one included.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := s.codec.Encode(s.notes)
	if err == nil {
		err = s.storage.Save(ctx, s.key, data)
	}
	return s.track(err)
}

// track records the outcome of a write in the dirty flag.
func (s *Store) track(err error) error {
	if err != nil {
		s.dirty = true
		s.logger.Error("history not persisted", "key", s.key, "notes", len(s.notes), "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.dirty = false
	s.logger.Debug("history persisted", "key", s.key, "notes", len(s.notes))
	return nil
}

func (s *Store) reversedLocked() []Note {
	view := slices.Clone(s.notes)
	slices.Reverse(view)
	return view
}

func (s *Store) event(t EventType, index int) Event {
	return Event{Type: t, Key: s.key, Index: index, Timestamp: s.now().Unix()}
}

func (s *Store) notify(view []Note, e Event) {
	s.render(view)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
			s.logger.Debug("subscriber behind, dropping event", "event", e.String())
		}
	}
}

func (s *Store) render(view []Note) {
	for _, r := range s.renderers {
		if err := r.Render(slices.Clone(view)); err != nil {
			s.logger.Warn("render failed", "error", err)
		}
	}
}
