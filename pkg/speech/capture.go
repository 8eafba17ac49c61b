// Package speech holds the voice collaborators of the note store: capture
// sessions fed by a Recognizer, and playback through a Synthesizer.
package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/talktyper/pkg/core"
)

// Segment is one recognition result. Interim results may be revised later;
// only final ones end up in the note.
type Segment struct {
	Text  string
	Final bool
}

// Recognizer produces segments until the capture ends, signalled by io.EOF.
type Recognizer interface {
	Next(ctx context.Context) (Segment, error)
}

// Session turns one capture into one note.
type Session struct {
	Store  *core.Store
	Logger *slog.Logger

	// OnSegment, when set, sees every segment as it arrives (live preview).
	OnSegment func(Segment)
}

// Run reads r until end of capture, then appends the concatenated final
// segments, each followed by a space. An empty capture still yields a note.
// A cancelled capture appends nothing.
func (s *Session) Run(ctx context.Context, r Recognizer) (core.Note, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var transcript strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return core.Note{}, err
		}

		seg, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.Note{}, fmt.Errorf("recognition failed: %w", err)
		}

		if s.OnSegment != nil {
			s.OnSegment(seg)
		}
		if seg.Final {
			transcript.WriteString(seg.Text)
			transcript.WriteString(" ")
		}
	}
	if err := ctx.Err(); err != nil {
		return core.Note{}, err
	}
	logger.Debug("speech recognition ended", "chars", transcript.Len())

	note := core.Note{Timestamp: s.Store.Stamp(), Transcription: transcript.String()}
	return note, s.Store.Append(ctx, note.Timestamp, note.Transcription)
}

// LineRecognizer treats each non-blank input line as a final segment and the
// end of input as the end of capture. It lets any dictation tool that prints
// text feed a session through a pipe.
//
// Reading happens on a background goroutine so that Next honours
// cancellation while the input blocks. That goroutine exits at end of input
// or once Close is called and its pending read returns.
type LineRecognizer struct {
	r     io.Reader
	once  sync.Once
	lines chan string
	stop  chan struct{}
	close sync.Once
	err   error // set before lines is closed
}

// NewLineRecognizer reads segments from r.
func NewLineRecognizer(r io.Reader) *LineRecognizer {
	return &LineRecognizer{r: r, lines: make(chan string), stop: make(chan struct{})}
}

func (l *LineRecognizer) scan() {
	defer close(l.lines)
	scanner := bufio.NewScanner(l.r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case l.lines <- line:
		case <-l.stop:
			return
		}
	}
	l.err = scanner.Err()
}

func (l *LineRecognizer) Next(ctx context.Context) (Segment, error) {
	l.once.Do(func() { go l.scan() })

	select {
	case <-ctx.Done():
		return Segment{}, ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			if l.err != nil {
				return Segment{}, l.err
			}
			return Segment{}, io.EOF
		}
		return Segment{Text: line, Final: true}, nil
	}
}

// Close stops delivering lines. It does not close the underlying reader.
func (l *LineRecognizer) Close() error {
	l.close.Do(func() { close(l.stop) })
	return nil
}
