package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/pkg/speech"
)

const defaultSpeakCmd = "espeak"

var speakCmd = &cobra.Command{
	Use:   "speak <n>",
	Short: "Read a note aloud",
	Long:  `Speak passes the note text to a text-to-speech program, espeak unless TALKTYPER_SPEAK_CMD says otherwise.`,
	Args:  cobra.ExactArgs(1),
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
			fatal("Error speaking note", err)
		}
		note, err := store.Get(index)
		if err != nil {
			fatal("Error speaking note", err)
		}

		line := cfg.SpeakCmd
		if line == "" {
			line = defaultSpeakCmd
		}
		if err := speech.ParseCommand(line).Speak(ctx, note.Transcription); err != nil {
			fatal("Error speaking note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(speakCmd)
}
