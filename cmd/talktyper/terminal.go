package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/talktyper/pkg/core"
)

// terminal asks questions on stdout and reads answers from stdin.
type terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminal() *terminal {
	return &terminal{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (t *terminal) readLine(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	line, err := t.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", false, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

// Confirm accepts y or yes; anything else, EOF included, declines.
func (t *terminal) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", message)
	answer, ok, err := t.readLine(ctx)
	if err != nil || !ok {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Prompt shows the initial text; an empty answer keeps it and EOF cancels.
func (t *terminal) Prompt(ctx context.Context, message, initial string) (string, bool, error) {
	if initial != "" {
		fmt.Fprintf(t.out, "%s\n(current: %s)\n> ", message, initial)
	} else {
		fmt.Fprintf(t.out, "%s\n> ", message)
	}
	answer, ok, err := t.readLine(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	if answer == "" {
		return initial, true, nil
	}
	return answer, true, nil
}

var (
	_ core.Confirmer = (*terminal)(nil)
	_ core.Prompter  = (*terminal)(nil)
)

// confirmer returns a Confirmer that skips the question when yes is set.
func confirmer(yes bool) core.Confirmer {
	if yes {
		return core.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	}
	return newTerminal()
}

// rowIndex translates a 1-based row of the newest-first listing into the
// insertion index of the store.
func rowIndex(store *core.Store, arg string) (int, error) {
	row, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid row number %q", arg)
	}
	n := store.Len()
	if row < 1 || row > n {
		return 0, fmt.Errorf("row %d of %d: %w", row, n, core.ErrIndexOutOfRange)
	}
	return core.DisplayIndex(n, row-1), nil
}
