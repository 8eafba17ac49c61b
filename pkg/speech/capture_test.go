package speech_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/talktyper/pkg/adapters/memory"
	"github.com/aretw0/talktyper/pkg/codec"
	"github.com/aretw0/talktyper/pkg/core"
	"github.com/aretw0/talktyper/pkg/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays a fixed list of segments, then ends the capture.
type scripted struct {
	segments []speech.Segment
	err      error
}

func (s *scripted) Next(ctx context.Context) (speech.Segment, error) {
	if len(s.segments) == 0 {
		if s.err != nil {
			return speech.Segment{}, s.err
		}
		return speech.Segment{}, io.EOF
	}
	seg := s.segments[0]
	s.segments = s.segments[1:]
	return seg, nil
}

func newStore(t *testing.T) *core.Store {
	t.Helper()
	fixed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := core.NewStore(memory.New(), codec.JSON{}, core.WithClock(func() time.Time { return fixed }))
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)
	return s
}

func TestSession_KeepsFinalSegmentsOnly(t *testing.T) {
	store := newStore(t)
	var seen int
	session := &speech.Session{Store: store, OnSegment: func(speech.Segment) { seen++ }}

	note, err := session.Run(context.Background(), &scripted{segments: []speech.Segment{
		{Text: "hel", Final: false},
		{Text: "hello", Final: true},
		{Text: "wor", Final: false},
		{Text: "world", Final: true},
	}})
	require.NoError(t, err)

	assert.Equal(t, "hello world ", note.Transcription)
	assert.Equal(t, "2024-01-01 10:00:00", note.Timestamp)
	assert.Equal(t, []core.Note{note}, store.Notes())
	assert.Equal(t, 4, seen)
}

func TestSession_EmptyCaptureStillAppends(t *testing.T) {
	store := newStore(t)
	session := &speech.Session{Store: store}

	note, err := session.Run(context.Background(), &scripted{})
	require.NoError(t, err)
	assert.Equal(t, "", note.Transcription)
	assert.Equal(t, 1, store.Len())
}

func TestSession_CancelledAppendsNothing(t *testing.T) {
	store := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&speech.Session{Store: store}).Run(ctx, &scripted{segments: []speech.Segment{{Text: "x", Final: true}}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}

// cancelling ends the capture as if the user hit stop mid-sentence.
type cancelling struct {
	cancel context.CancelFunc
	done   bool
}

func (c *cancelling) Next(ctx context.Context) (speech.Segment, error) {
	if !c.done {
		c.done = true
		return speech.Segment{Text: "half a thought", Final: true}, nil
	}
	c.cancel()
	return speech.Segment{}, io.EOF
}

func TestSession_CancelledDuringCaptureAppendsNothing(t *testing.T) {
	store := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := (&speech.Session{Store: store}).Run(ctx, &cancelling{cancel: cancel})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}

func TestSession_RecognizerError(t *testing.T) {
	store := newStore(t)
	mic := errors.New("microphone unplugged")

	_, err := (&speech.Session{Store: store}).Run(context.Background(), &scripted{err: mic})
	assert.ErrorIs(t, err, mic)
	assert.Equal(t, 0, store.Len())
}

func TestLineRecognizer(t *testing.T) {
	r := speech.NewLineRecognizer(strings.NewReader("buy milk\n\n  and eggs  \n"))
	ctx := context.Background()

	seg, err := r.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, speech.Segment{Text: "buy milk", Final: true}, seg)

	seg, err = r.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "and eggs", seg.Text)

	_, err = r.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineRecognizer_CancelWhileBlocked(t *testing.T) {
	pr, pw := io.Pipe()
	r := speech.NewLineRecognizer(pr)
	t.Cleanup(func() {
		_ = r.Close()
		_ = pw.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := r.Next(ctx)
		errc <- err
	}()
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not return after cancellation")
	}
}

func TestLineRecognizer_ReadError(t *testing.T) {
	pr, pw := io.Pipe()
	broken := errors.New("pipe broke")
	require.NoError(t, pw.CloseWithError(broken))

	_, err := speech.NewLineRecognizer(pr).Next(context.Background())
	assert.ErrorIs(t, err, broken)
}
