package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/internal/platform"
	"github.com/aretw0/talktyper/pkg/core"
	"github.com/aretw0/talktyper/pkg/render"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every note",
	Long:  `Clear empties the history and removes the stored record entirely.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		store, err := openStore(ctx, platform.WithRenderer(render.Text{W: os.Stdout}))
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer store.Close()

		if _, err := core.ClearHistory(ctx, store, confirmer(clearYes)); err != nil {
			fatal("Error clearing history", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
}
