package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/talktyper/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answer(ok bool) core.ConfirmFunc {
	return func(ctx context.Context, message string) (bool, error) { return ok, nil }
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Declined", func(t *testing.T) {
		s, _, _ := newStore(t)
		require.NoError(t, s.Append(ctx, "1", "one"))

		removed, err := core.DeleteNote(ctx, s, answer(false), 0)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("Confirmed", func(t *testing.T) {
		s, _, _ := newStore(t)
		require.NoError(t, s.Append(ctx, "1", "one"))

		var asked string
		c := core.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
			asked = message
			return true, nil
		})
		removed, err := core.DeleteNote(ctx, s, c, 0)
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, core.ConfirmDeleteMessage, asked)
	})

	t.Run("Out of range is checked before asking", func(t *testing.T) {
		s, _, _ := newStore(t)
		c := core.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
			t.Fatal("confirmation should not be requested")
			return false, nil
		})
		_, err := core.DeleteNote(ctx, s, c, 0)
		assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
	})

	t.Run("Confirmer error", func(t *testing.T) {
		s, _, _ := newStore(t)
		require.NoError(t, s.Append(ctx, "1", "one"))
		boom := errors.New("tty closed")
		c := core.ConfirmFunc(func(ctx context.Context, message string) (bool, error) { return false, boom })

		_, err := core.DeleteNote(ctx, s, c, 0)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, s.Len())
	})
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)
	require.NoError(t, s.Append(ctx, "1", "one"))

	cleared, err := core.ClearHistory(ctx, s, answer(false))
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, 1, s.Len())

	cleared, err = core.ClearHistory(ctx, s, answer(true))
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, 0, s.Len())
	assert.False(t, storage.Has(core.DefaultKey))
}

func TestEditNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancelled prompt is a no-op", func(t *testing.T) {
		s, _, rec := newStore(t)
		require.NoError(t, s.Append(ctx, "1", "one"))
		renders := len(rec.renders)

		p := core.PromptFunc(func(ctx context.Context, message, initial string) (string, bool, error) {
			return "", false, nil
		})
		edited, err := core.EditNote(ctx, s, p, 0)
		require.NoError(t, err)
		assert.False(t, edited)
		assert.Equal(t, "one", s.Notes()[0].Transcription)
		assert.Len(t, rec.renders, renders)
	})

	t.Run("Prompt is prefilled and applied", func(t *testing.T) {
		s, _, _ := newStore(t)
		require.NoError(t, s.Append(ctx, "1", "one"))

		p := core.PromptFunc(func(ctx context.Context, message, initial string) (string, bool, error) {
			assert.Equal(t, core.EditPromptMessage, message)
			assert.Equal(t, "one", initial)
			return "", true, nil
		})
		edited, err := core.EditNote(ctx, s, p, 0)
		require.NoError(t, err)
		assert.True(t, edited)
		assert.Equal(t, core.Note{Timestamp: "1", Transcription: ""}, s.Notes()[0], "an empty edit is still an edit")
	})
}
