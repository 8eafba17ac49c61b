package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/internal/platform"
	"github.com/aretw0/talktyper/pkg/core"
	"github.com/aretw0/talktyper/pkg/render"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <n>",
	Short: "Delete a note",
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
			fatal("Error deleting note", err)
		}

		if _, err := core.DeleteNote(ctx, store, confirmer(deleteYes), index); err != nil {
			fatal("Error deleting note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}
