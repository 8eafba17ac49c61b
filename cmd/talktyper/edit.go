package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/internal/platform"
	"github.com/aretw0/talktyper/pkg/core"
	"github.com/aretw0/talktyper/pkg/render"
)

var editText string

var editCmd = &cobra.Command{
	Use:   "edit <n>",
	Short: "Replace the text of a note",
	Long:  `Edit replaces the text of row n and keeps its timestamp. Without --text the current text is offered for editing.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		store, err := openStore(ctx, platform.WithRenderer(render.Text{W: os.Stdout}))
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer store.Close()

		index, err := rowIndex(store, args[0])
		if err != nil {
			fatal("Error editing note", err)
		}

		if cmd.Flags().Changed("text") {
			if err := store.Update(ctx, index, editText); err != nil {
				fatal("Error editing note", err)
			}
			return
		}

		if _, err := core.EditNote(ctx, store, newTerminal(), index); err != nil {
			fatal("Error editing note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editText, "text", "", "New text, skipping the prompt")
}
