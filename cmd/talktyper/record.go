package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/internal/platform"
	"github.com/aretw0/talktyper/pkg/render"
	"github.com/aretw0/talktyper/pkg/speech"
)

var (
	recordAudio    string
	recordLanguage string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture a voice note",
	Long: `Record turns one capture into one note.

Without --audio, every line read from stdin is a recognized phrase, so any
dictation tool can be piped in; end of input ends the capture. With --audio,
the file is transcribed through the OpenAI audio API (OPENAI_API_KEY).
Interrupting the capture discards it.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		var recognizer speech.Recognizer
		if recordAudio != "" {
			if cfg.OpenAIKey == "" {
				fatal("Error transcribing", errors.New("OPENAI_API_KEY is not set"))
			}
			w := speech.NewWhisperRecognizer(cfg.OpenAIKey, recordAudio)
			w.Language = recordLanguage
			recognizer = w
		} else {
			fmt.Fprintln(os.Stderr, "Listening... (Ctrl-D to stop, Ctrl-C to discard)")
			lines := speech.NewLineRecognizer(os.Stdin)
			defer lines.Close()
			recognizer = lines
		}

		store, err := openStore(ctx, platform.WithRenderer(render.Text{W: os.Stdout}))
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer store.Close()

		session := &speech.Session{Store: store}
		if _, err := session.Run(ctx, recognizer); err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(os.Stderr, "Capture discarded.")
				return
			}
			fatal("Error recording note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVar(&recordAudio, "audio", "", "Transcribe this audio file instead of reading stdin")
	recordCmd.Flags().StringVar(&recordLanguage, "language", "", "Spoken language (ISO-639-1) for --audio")
}
