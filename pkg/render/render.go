// Package render draws the note history for a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/talktyper/pkg/core"
)

// EmptyMessage is printed when there is nothing to show.
const EmptyMessage = "No notes yet."

// Text writes one numbered row per note. Row 1 is the newest note.
type Text struct {
	W io.Writer
}

func (t Text) Render(notes []core.Note) error {
	if len(notes) == 0 {
		_, err := fmt.Fprintln(t.W, EmptyMessage)
		return err
	}

	width := len(fmt.Sprint(len(notes)))
	for i, n := range notes {
		if _, err := fmt.Fprintf(t.W, "%*d. %s\n", width, i+1, Line(n)); err != nil {
			return err
		}
	}
	return nil
}

// Line formats a note as "<timestamp> - <transcription>", flattening newlines
// so that every note stays on one row.
func Line(n core.Note) string {
	text := strings.ReplaceAll(n.Transcription, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return fmt.Sprintf("%s - %s", n.Timestamp, text)
}

// JSON writes the history as an indented JSON array.
type JSON struct {
	W io.Writer
}

func (j JSON) Render(notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}
	encoder := json.NewEncoder(j.W)
	encoder.SetIndent("", "  ")
	return encoder.Encode(notes)
}

var (
	_ core.Renderer = Text{}
	_ core.Renderer = JSON{}
)
