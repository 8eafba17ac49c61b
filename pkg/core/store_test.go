package core_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/talktyper/pkg/adapters/memory"
	"github.com/aretw0/talktyper/pkg/codec"
	"github.com/aretw0/talktyper/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures what the presentation layer was handed.
type recorder struct {
	renders [][]core.Note
}

func (r *recorder) Render(notes []core.Note) error {
	r.renders = append(r.renders, notes)
	return nil
}

func (r *recorder) last() []core.Note {
	if len(r.renders) == 0 {
		return nil
	}
	return r.renders[len(r.renders)-1]
}

func newStore(t *testing.T, opts ...core.StoreOption) (*core.Store, *memory.Storage, *recorder) {
	t.Helper()
	storage := memory.New()
	rec := &recorder{}
	opts = append([]core.StoreOption{core.WithRenderer(rec)}, opts...)
	s := core.NewStore(storage, codec.JSON{}, opts...)
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)
	return s, storage, rec
}

func TestStore_Scenario(t *testing.T) {
	ctx := context.Background()
	s, storage, rec := newStore(t)

	n1 := core.Note{Timestamp: "2024-01-01 10:00", Transcription: "hello world"}
	require.NoError(t, s.Append(ctx, n1.Timestamp, n1.Transcription))
	assert.Equal(t, []core.Note{n1}, s.Notes())

	added, err := s.AppendManual(ctx, "2024-01-01 10:01", "")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []core.Note{n1}, s.Notes())

	require.NoError(t, s.Update(ctx, 0, "hi"))
	n1b := core.Note{Timestamp: "2024-01-01 10:00", Transcription: "hi"}
	assert.Equal(t, []core.Note{n1b}, s.Notes())

	n2 := core.Note{Timestamp: "2024-01-01 10:05", Transcription: "second"}
	require.NoError(t, s.Append(ctx, n2.Timestamp, n2.Transcription))
	assert.Equal(t, []core.Note{n1b, n2}, s.Notes())
	assert.Equal(t, []core.Note{n2, n1b}, s.Reversed())
	assert.Equal(t, []core.Note{n2, n1b}, rec.last(), "renderer receives newest first")

	require.NoError(t, s.Remove(ctx, 0))
	assert.Equal(t, []core.Note{n2}, s.Notes())

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Notes())
	assert.False(t, storage.Has(core.DefaultKey))
	assert.Empty(t, rec.last())
}

func TestStore_AppendCountsNonEmptyManualOnly(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)

	inputs := []string{"a", "  ", "b", "", "\t\n", " c "}
	var want []core.Note
	for i, in := range inputs {
		ts := time.Date(2024, 1, 1, 10, i, 0, 0, time.UTC).Format(core.DefaultTimestampLayout)
		added, err := s.AppendManual(ctx, ts, in)
		require.NoError(t, err)
		if added {
			want = append(want, core.Note{Timestamp: ts, Transcription: map[string]string{"a": "a", "b": "b", " c ": "c"}[in]})
		}
	}

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, want, s.Notes())
}

func TestStore_VoiceAppendAcceptsEmpty(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)

	require.NoError(t, s.Append(ctx, "t", ""))
	assert.Equal(t, []core.Note{{Timestamp: "t"}}, s.Notes())
}

func TestStore_UpdateLeavesOthers(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	for _, txt := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(ctx, "ts-"+txt, txt))
	}

	require.NoError(t, s.Update(ctx, 1, "B"))
	assert.Equal(t, []core.Note{
		{Timestamp: "ts-a", Transcription: "a"},
		{Timestamp: "ts-b", Transcription: "B"},
		{Timestamp: "ts-c", Transcription: "c"},
	}, s.Notes())
}

func TestStore_RemoveShifts(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	for _, txt := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Append(ctx, "ts", txt))
	}

	require.NoError(t, s.Remove(ctx, 1))
	got := s.Notes()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Transcription)
	assert.Equal(t, "c", got[1].Transcription)
	assert.Equal(t, "d", got[2].Transcription)
}

func TestStore_IndexOutOfRange(t *testing.T) {
	ctx := context.Background()
	s, _, rec := newStore(t)
	require.NoError(t, s.Append(ctx, "ts", "only"))
	renders := len(rec.renders)

	for _, idx := range []int{-1, 1, 42} {
		assert.ErrorIs(t, s.Update(ctx, idx, "x"), core.ErrIndexOutOfRange)
		assert.ErrorIs(t, s.Remove(ctx, idx), core.ErrIndexOutOfRange)
		_, err := s.Get(idx)
		assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
	}

	assert.Equal(t, []core.Note{{Timestamp: "ts", Transcription: "only"}}, s.Notes())
	assert.Len(t, rec.renders, renders, "failed operations do not re-render")
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)

	require.NoError(t, s.Append(ctx, "1", "one"))
	require.NoError(t, s.Append(ctx, "2", "two"))
	require.NoError(t, s.Append(ctx, "3", "three"))
	require.NoError(t, s.Update(ctx, 2, "THREE"))
	require.NoError(t, s.Remove(ctx, 0))

	fresh := core.NewStore(storage, codec.JSON{})
	got, err := fresh.Initialize(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(s.Notes(), got); diff != "" {
		t.Errorf("reloaded history mismatch (-memory +persisted):\n%s", diff)
	}
}

func TestStore_ClearRemovesPersistedRecord(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)
	require.NoError(t, s.Append(ctx, "1", "one"))
	require.True(t, storage.Has(core.DefaultKey))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, storage.Has(core.DefaultKey))

	got, err := core.NewStore(storage, codec.JSON{}).Initialize(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_RemovingLastNoteKeepsEmptyRecord(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)
	require.NoError(t, s.Append(ctx, "1", "one"))

	require.NoError(t, s.Remove(ctx, 0))
	require.True(t, storage.Has(core.DefaultKey), "only Clear removes the record")
	data, err := storage.Load(ctx, core.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	got, err := core.NewStore(storage, codec.JSON{}).Initialize(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_PushReportsIndex(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)

	idx, err := s.Push(ctx, "1", "one")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	idx, err = s.Push(ctx, "2", "two")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, added, err := s.PushManual(ctx, "3", "   ")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, -1, idx)

	idx, added, err = s.PushManual(ctx, "3", "  three ")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 2, idx)

	note, err := s.Replace(ctx, 1, "TWO")
	require.NoError(t, err)
	assert.Equal(t, core.Note{Timestamp: "2", Transcription: "TWO"}, note)

	_, err = s.Replace(ctx, 7, "x")
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
}

func TestStore_PushIndexUnderContention(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)

	const workers = 8
	results := make(chan struct {
		idx  int
		text string
	}, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			text := fmt.Sprintf("note-%d", w)
			idx, err := s.Push(ctx, "ts", text)
			assert.NoError(t, err)
			results <- struct {
				idx  int
				text string
			}{idx, text}
		}(w)
	}
	wg.Wait()
	close(results)

	for r := range results {
		got, err := s.Get(r.idx)
		require.NoError(t, err)
		assert.Equal(t, r.text, got.Transcription, "index %d", r.idx)
	}
}

func TestStore_InitializeMalformedIsEmpty(t *testing.T) {
	storage := memory.New()
	storage.Set(core.DefaultKey, []byte(`{"broken":`))

	s := core.NewStore(storage, codec.JSON{})
	got, err := s.Initialize(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, s.Len())
}

func TestStore_InitializeExisting(t *testing.T) {
	storage := memory.New()
	storage.Set("custom", []byte(`[{"timestamp":"t1","transcription":"x"}]`))

	s := core.NewStore(storage, codec.JSON{}, core.WithKey("custom"))
	got, err := s.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Note{{Timestamp: "t1", Transcription: "x"}}, got)
	assert.Equal(t, "custom", s.Key())
}

func TestStore_PersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	s, storage, rec := newStore(t)
	require.NoError(t, s.Append(ctx, "1", "one"))

	quota := errors.New("quota exceeded")
	storage.FailWrites = quota

	err := s.Append(ctx, "2", "two")
	assert.ErrorIs(t, err, core.ErrPersist)
	assert.ErrorIs(t, err, quota)
	assert.True(t, s.Dirty())
	assert.Equal(t, 2, s.Len(), "in-memory history stays the source of truth")
	assert.Len(t, rec.last(), 2)

	persisted, _ := core.NewStore(storage, codec.JSON{}).Initialize(ctx)
	assert.Len(t, persisted, 1)

	storage.FailWrites = nil
	require.NoError(t, s.Flush(ctx))
	assert.False(t, s.Dirty())

	persisted, _ = core.NewStore(storage, codec.JSON{}).Initialize(ctx)
	assert.Len(t, persisted, 2)
}

func TestStore_ReadOnlyStorage(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewReadOnly(map[string][]byte{
		core.DefaultKey: []byte(`[{"timestamp":"t","transcription":"x"}]`),
	})
	s := core.NewStore(storage, codec.JSON{})
	_, err := s.Initialize(ctx)
	require.NoError(t, err)

	err = s.Update(ctx, 0, "y")
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.ErrorIs(t, err, core.ErrPersist)
}

func TestStore_Reload(t *testing.T) {
	ctx := context.Background()
	s, storage, rec := newStore(t)
	require.NoError(t, s.Append(ctx, "1", "one"))

	storage.Set(core.DefaultKey, []byte(`[{"timestamp":"9","transcription":"external"}]`))
	require.NoError(t, s.Reload(ctx))

	assert.Equal(t, []core.Note{{Timestamp: "9", Transcription: "external"}}, s.Notes())
	assert.Equal(t, s.Reversed(), rec.last())
}

func TestStore_ReloadRefusedWhileDirty(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)
	require.NoError(t, s.Append(ctx, "1", "a"))

	storage.FailWrites = errors.New("disk full")
	require.ErrorIs(t, s.Append(ctx, "2", "b"), core.ErrPersist)
	storage.FailWrites = nil

	err := s.Reload(ctx)
	assert.ErrorIs(t, err, core.ErrDirty)
	assert.True(t, s.Dirty())
	want := []core.Note{{Timestamp: "1", Transcription: "a"}, {Timestamp: "2", Transcription: "b"}}
	assert.Equal(t, want, s.Notes(), "unsaved notes survive a reload attempt")

	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Reload(ctx))
	assert.Equal(t, want, s.Notes())
	assert.False(t, s.Dirty())
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)

	events, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Append(ctx, "1", "one"))
	require.NoError(t, s.Update(ctx, 0, "uno"))
	require.NoError(t, s.Clear(ctx))

	var got []core.EventType
	for i := 0; i < 3; i++ {
		e := <-events
		got = append(got, e.Type)
		assert.Equal(t, core.DefaultKey, e.Key)
	}
	assert.Equal(t, []core.EventType{core.EventAppend, core.EventUpdate, core.EventClear}, got)

	cancel()
	_, open := <-events
	assert.False(t, open)
}

func TestStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t, core.WithEventBuffer(1))
	_, cancel := s.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, "ts", "x"))
	}
	assert.Equal(t, 5, s.Len())
}

func TestStore_Stamp(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := core.NewStore(memory.New(), codec.JSON{},
		core.WithClock(func() time.Time { return fixed }),
		core.WithTimestampLayout("2006-01-02 15:04"),
	)
	assert.Equal(t, "2024-01-01 10:00", s.Stamp())
}

func TestStore_State(t *testing.T) {
	s, _, _ := newStore(t)
	state, ok := s.State().(core.StoreState)
	require.True(t, ok)
	assert.Equal(t, "memory", state.StorageType)
	assert.Equal(t, "json", state.Codec)
	assert.Equal(t, "store", s.ComponentType())
}

func TestDisplayIndex(t *testing.T) {
	assert.Equal(t, 2, core.DisplayIndex(3, 0))
	assert.Equal(t, 0, core.DisplayIndex(3, 2))
	assert.Equal(t, -1, core.DisplayIndex(3, 3))
	assert.Equal(t, -1, core.DisplayIndex(0, 0))
}
