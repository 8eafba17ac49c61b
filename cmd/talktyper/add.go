package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/internal/platform"
	"github.com/aretw0/talktyper/pkg/render"
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a typed note",
	Long:  `Add stores the text as a new note. Surrounding whitespace is trimmed and blank text is ignored.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		store, err := openStore(ctx, platform.WithRenderer(render.Text{W: os.Stdout}))
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer store.Close()

		added, err := store.AppendManual(ctx, store.Stamp(), strings.Join(args, " "))
		if err != nil {
			fatal("Error adding note", err)
		}
		if !added {
			fmt.Fprintln(os.Stderr, "Nothing to add.")
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
