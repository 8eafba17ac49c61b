package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/pkg/core"
	"github.com/aretw0/talktyper/pkg/render"
)

var (
	listJSON   bool
	listFollow bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		var renderer core.Renderer = render.Text{W: os.Stdout}
		if listJSON {
			renderer = render.JSON{W: os.Stdout}
		}

		store, err := openStore(ctx)
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer store.Close()

		if err := renderer.Render(store.Reversed()); err != nil {
			fatal("Error rendering notes", err)
		}
		if !listFollow {
			return
		}

		if err := followExternal(ctx, store, func() {
			if err := renderer.Render(store.Reversed()); err != nil {
				slog.Warn("render failed", "error", err)
			}
		}); err != nil && ctx.Err() == nil {
			fatal("Error following notes", err)
		}
	},
}

// followExternal reloads the store whenever its storage changes outside this
// process and calls onChange afterwards. It blocks until ctx is done.
func followExternal(ctx context.Context, store *core.Store, onChange func()) error {
	return watchStorage(ctx, store, func(e core.Event) {
		if err := store.Reload(ctx); err != nil {
			if errors.Is(err, core.ErrDirty) {
				slog.Warn("external change ignored, local history not saved yet", "event", e.String())
				return
			}
			slog.Warn("reload failed", "event", e.String(), "error", err)
			return
		}
		onChange()
	})
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listFollow, "follow", false, "Keep running and print the history again when it changes")
}
