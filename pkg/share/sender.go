package share

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a message body to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) (id string, err error)
}

// TwilioSender delivers the Message channel as an SMS through Twilio.
type TwilioSender struct {
	From   string
	client *twilio.RestClient
}

// NewTwilioSender creates a sender authenticated with the account credentials.
func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		From: from,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient number is required")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.From)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// Opener hands a link to the desktop's URL handler.
type Opener struct {
	// Command overrides the platform default (xdg-open, open, rundll32).
	Command []string
}

// Open launches the handler for link without waiting for it to exit. The
// handler outlives ctx.
func (o Opener) Open(ctx context.Context, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	args := o.Command
	if len(args) == 0 {
		switch runtime.GOOS {
		case "darwin":
			args = []string{"open"}
		case "windows":
			args = []string{"rundll32", "url.dll,FileProtocolHandler"}
		default:
			args = []string{"xdg-open"}
		}
	}

	cmd := exec.Command(args[0], append(append([]string{}, args[1:]...), link)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	return cmd.Process.Release()
}
