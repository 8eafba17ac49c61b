// Package core holds the note history and the ports its collaborators implement.
package core

import (
	"fmt"
	"time"
)

// DefaultTimestampLayout is the human readable layout used for new notes.
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// Note is one timestamped unit of transcribed or manually entered text.
// Timestamp is fixed at creation and is not a unique key.
type Note struct {
	Timestamp     string `json:"timestamp" yaml:"timestamp"`
	Transcription string `json:"transcription" yaml:"transcription"`
}

// Timestamp formats t with layout, falling back to DefaultTimestampLayout.
func Timestamp(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	return t.Format(layout)
}

// DisplayIndex maps a position in the newest-first rendering of a history of
// length n to its insertion-order index. It returns -1 when pos is out of range.
func DisplayIndex(n, pos int) int {
	if pos < 0 || pos >= n {
		return -1
	}
	return n - 1 - pos
}

// EventType represents the kind of change applied to the history.
type EventType string

const (
	EventAppend   EventType = "APPEND"
	EventUpdate   EventType = "UPDATE"
	EventRemove   EventType = "REMOVE"
	EventClear    EventType = "CLEAR"
	EventReload   EventType = "RELOAD"
	EventExternal EventType = "EXTERNAL"
)

// Event represents a change in the history or in its persisted blob.
type Event struct {
	Type      EventType
	Key       string
	Index     int   // insertion-order index, -1 when not applicable
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s %s", e.Type, e.Key)
	}
	return fmt.Sprintf("%s %s[%d]", e.Type, e.Key, e.Index)
}
