package main

import (
	"context"
	"log/slog"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/internal/server"
	"github.com/aretw0/talktyper/pkg/core"
	"github.com/aretw0/talktyper/pkg/share"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the notes over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		store, err := openStore(ctx)
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer store.Close()

		opts := []server.Option{server.WithLogger(slog.Default())}
		if cfg.TwilioConfigured() {
			opts = append(opts, server.WithSender(share.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)))
		}

		if _, ok := store.Storage().(core.Watchable); ok {
			lifecycle.Go(ctx, func(ctx context.Context) error {
				return followExternal(ctx, store, func() {
					slog.Info("history reloaded", "notes", store.Len())
				})
			}, lifecycle.WithErrorHandler(func(err error) {
				slog.Warn("history watcher stopped", "error", err)
			}))
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr
		}
		if err := server.New(store, opts...).Listen(ctx, addr); err != nil {
			fatal("Error serving notes", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (env TALKTYPER_ADDR, default :8080)")
}
