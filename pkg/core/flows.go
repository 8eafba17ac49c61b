package core

import (
	"context"
	"fmt"
)

// Questions asked before destructive or editing actions.
const (
	ConfirmDeleteMessage = "Are you sure you want to delete this note?"
	ConfirmClearMessage  = "Are you sure you want to clear the entire history?"
	EditPromptMessage    = "Enter new text:"
)

// DeleteNote asks for confirmation and removes the note at index when granted.
// It reports whether the note was removed.
func DeleteNote(ctx context.Context, s *Store, c Confirmer, index int) (bool, error) {
	if _, err := s.Get(index); err != nil {
		return false, err
	}

	ok, err := c.Confirm(ctx, ConfirmDeleteMessage)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return false, nil
	}
	return true, s.Remove(ctx, index)
}

// ClearHistory asks for confirmation and clears the history when granted.
func ClearHistory(ctx context.Context, s *Store, c Confirmer) (bool, error) {
	ok, err := c.Confirm(ctx, ConfirmClearMessage)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return false, nil
	}
	return true, s.Clear(ctx)
}

// EditNote prompts for new text pre-filled with the current transcription.
// A cancelled prompt leaves the store unchanged.
func EditNote(ctx context.Context, s *Store, p Prompter, index int) (bool, error) {
	note, err := s.Get(index)
	if err != nil {
		return false, err
	}

	text, ok, err := p.Prompt(ctx, EditPromptMessage, note.Transcription)
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	if !ok {
		return false, nil
	}
	return true, s.Update(ctx, index, text)
}
