package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Synthesizer reads text aloud.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// CommandSynthesizer runs a text-to-speech program with the text as its last
// argument, e.g. []string{"espeak", "-v", "en-us"}.
type CommandSynthesizer struct {
	Command []string
}

// ParseCommand splits a configured command line on whitespace.
func ParseCommand(line string) CommandSynthesizer {
	return CommandSynthesizer{Command: strings.Fields(line)}
}

func (c CommandSynthesizer) Speak(ctx context.Context, text string) error {
	if len(c.Command) == 0 {
		return fmt.Errorf("no speech command configured")
	}

	args := append(append([]string{}, c.Command[1:]...), text)
	out, err := exec.CommandContext(ctx, c.Command[0], args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", c.Command[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
