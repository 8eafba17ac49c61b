package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/pkg/share"
)

var (
	shareOption string
	shareTo     string
	shareOpen   bool
)

var shareCmd = &cobra.Command{
	Use:   "share <n>",
	Short: "Share a note by email, message or WhatsApp",
	Long: `Share builds a link for the chosen channel: 1 Email, 2 Message, 3 WhatsApp.
Without --option the channel is asked for. With --to and the Message channel,
the note is sent as an SMS through Twilio (TWILIO_* variables).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		store, err := openStore(ctx)
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer store.Close()

		index, err := rowIndex(store, args[0])
		if err != nil {
			fatal("Error sharing note", err)
		}
		note, err := store.Get(index)
		if err != nil {
			fatal("Error sharing note", err)
		}

		var ch share.Channel
		if shareOption != "" {
			ch, err = share.ParseChoice(shareOption)
		} else {
			ch, err = share.Ask(ctx, newTerminal())
		}
		if err != nil {
			fatal("Error sharing note", err)
		}

		if shareTo != "" {
			if ch != share.Message {
				fatal("Error sharing note", errors.New("--to requires the Message channel (2)"))
			}
			if !cfg.TwilioConfigured() {
				fatal("Error sharing note", errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER must be set"))
			}
			sender := share.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
			id, err := sender.Send(ctx, shareTo, share.Body(note.Transcription))
			if err != nil {
				fatal("Error sending note", err)
			}
			fmt.Printf("Message sent: %s\n", id)
			return
		}

		link, err := share.Link(ch, note.Transcription)
		if err != nil {
			fatal("Error sharing note", err)
		}
		if shareOpen {
			if err := (share.Opener{}).Open(ctx, link); err != nil {
				fatal("Error opening link", err)
			}
			return
		}
		fmt.Fprintln(os.Stdout, link)
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().StringVar(&shareOption, "option", "", "Channel: 1 Email, 2 Message, 3 WhatsApp")
	shareCmd.Flags().StringVar(&shareTo, "to", "", "Send the Message channel to this phone number")
	shareCmd.Flags().BoolVar(&shareOpen, "open", false, "Open the link with the desktop handler instead of printing it")
}
