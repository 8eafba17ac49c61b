package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// WhisperRecognizer transcribes a recorded audio file with the OpenAI audio
// API. The whole file is one final segment.
type WhisperRecognizer struct {
	Client   *openai.Client
	Path     string
	Language string // ISO-639-1, empty for auto detection
	Model    string

	done bool
}

// NewWhisperRecognizer creates a recognizer for the audio file at path.
func NewWhisperRecognizer(apiKey, path string) *WhisperRecognizer {
	return &WhisperRecognizer{
		Client: openai.NewClient(apiKey),
		Path:   path,
		Model:  openai.Whisper1,
	}
}

func (w *WhisperRecognizer) Next(ctx context.Context) (Segment, error) {
	if w.done {
		return Segment{}, io.EOF
	}
	w.done = true

	resp, err := w.Client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.Model,
		FilePath: w.Path,
		Language: w.Language,
	})
	if err != nil {
		return Segment{}, fmt.Errorf("whisper transcription of %s: %w", w.Path, err)
	}
	return Segment{Text: strings.TrimSpace(resp.Text), Final: true}, nil
}
