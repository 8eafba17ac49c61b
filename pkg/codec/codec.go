// Package codec encodes the whole note history into the blob kept by storage.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/talktyper/pkg/core"
	"gopkg.in/yaml.v3"
)

// ErrMalformed reports a blob that does not hold a sequence of notes.
var ErrMalformed = errors.New("malformed history")

// record mirrors core.Note with optional fields so that missing ones are detected.
type record struct {
	Timestamp     *string `json:"timestamp" yaml:"timestamp"`
	Transcription *string `json:"transcription" yaml:"transcription"`
}

func toNotes(records []*record) ([]core.Note, error) {
	notes := make([]core.Note, 0, len(records))
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("%w: entry %d is null", ErrMalformed, i)
		}
		if r.Timestamp == nil || r.Transcription == nil {
			return nil, fmt.Errorf("%w: entry %d lacks timestamp or transcription", ErrMalformed, i)
		}
		notes = append(notes, core.Note{Timestamp: *r.Timestamp, Transcription: *r.Transcription})
	}
	return notes, nil
}

// ByName returns the codec registered under name ("json" or "yaml").
func ByName(name string) (core.Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "json":
		return JSON{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// --- JSON ---

// JSON is the default codec, byte compatible with the browser local-storage
// blob: compact, with HTML characters and line separators left unescaped.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Encode(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(notes); err != nil {
		return nil, err
	}
	return unescapeSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeSeparators turns the \u2028 and \u2029 escapes written by
// encoding/json back into raw runes. Other escapes are copied as they are.
func unescapeSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if rest := data[i:]; len(rest) >= 6 && (bytes.HasPrefix(rest, []byte(`\u2028`)) || bytes.HasPrefix(rest, []byte(`\u2029`))) {
			r := '\u2028'
			if rest[5] == '9' {
				r = '\u2029'
			}
			out = utf8.AppendRune(out, r)
			i += 5
			continue
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

func (JSON) Decode(data []byte) ([]core.Note, error) {
	var records []*record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %w", ErrMalformed, err)
	}
	return toNotes(records)
}

// --- YAML ---

// YAML stores the history as a YAML sequence, which is friendlier to hand edits.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Encode(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	return yaml.Marshal(notes)
}

func (YAML) Decode(data []byte) ([]core.Note, error) {
	var records []*record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: invalid yaml: %w", ErrMalformed, err)
	}
	return toNotes(records)
}

var (
	_ core.Codec = JSON{}
	_ core.Codec = YAML{}
)
