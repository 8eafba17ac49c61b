// Package share turns a note into mail, message or chat links.
package share

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/talktyper/pkg/core"
)

// Channel is one of the three delivery options offered to the user.
type Channel int

const (
	Email    Channel = 1
	Message  Channel = 2
	WhatsApp Channel = 3
)

func (c Channel) String() string {
	switch c {
	case Email:
		return "Email"
	case Message:
		return "Message"
	case WhatsApp:
		return "WhatsApp"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ErrInvalidChoice is returned for any selection other than 1, 2 or 3.
// Its message is meant to be shown to the user as is.
var ErrInvalidChoice = errors.New("Invalid choice. Please select 1, 2, or 3.")

// Subject is the mail subject of shared notes.
const Subject = "Shared Note"

// ChoicePrompt is the question asked before sharing.
const ChoicePrompt = "How would you like to share the note?\n1. Email\n2. Message\n3. WhatsApp"

// Disclaimer is appended to every shared note.
const Disclaimer = "\n\n---\n\nCopyright & Disclaimer: (This content was created and shared by a user of TalkTyper. " +
	"We hold no responsibility for its accuracy, use, or misuse. Remember, User is solely responsible for this) " +
	"TalkTyper Product of DigiTech MRK"

// ParseChoice maps the user's raw selection to a Channel.
func ParseChoice(raw string) (Channel, error) {
	switch strings.TrimSpace(raw) {
	case "1":
		return Email, nil
	case "2":
		return Message, nil
	case "3":
		return WhatsApp, nil
	default:
		return 0, ErrInvalidChoice
	}
}

// Ask prompts for a channel. A cancelled prompt counts as an invalid choice.
func Ask(ctx context.Context, p core.Prompter) (Channel, error) {
	raw, ok, err := p.Prompt(ctx, ChoicePrompt, "")
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	if !ok {
		return 0, ErrInvalidChoice
	}
	return ParseChoice(raw)
}

// Body returns the shared text: the note followed by the disclaimer.
func Body(text string) string {
	return text + "\n\n" + Disclaimer
}

// Link builds the URL handing the note to the chosen channel.
func Link(ch Channel, text string) (string, error) {
	body := EncodeURIComponent(Body(text))
	switch ch {
	case Email:
		return "mailto:?subject=" + EncodeURIComponent(Subject) + "&body=" + body, nil
	case Message:
		return "sms:?body=" + body, nil
	case WhatsApp:
		return "whatsapp://send?text=" + body, nil
	default:
		return "", ErrInvalidChoice
	}
}

var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers do for URI components:
// everything but A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded and
// spaces become %20.
func EncodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}
