package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/internal/platform"
	"github.com/aretw0/talktyper/pkg/core"
)

var (
	verbose  bool
	envFile  string
	adapter  string
	path     string
	key      string
	format   string
	readOnly bool

	cfg platform.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "talktyper",
	Short: "Voice note-taking from the terminal",
	Long: `TalkTyper keeps a history of timestamped notes, dictated or typed.
The history is listed newest first; commands taking <n> use that row number.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		if err := platform.LoadEnv(envFile); err != nil {
			slog.Warn("env file not loaded", "file", envFile, "error", err)
		}
		cfg = platform.FromEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs, memory, sqlite, redis (env TALKTYPER_ADAPTER)")
	rootCmd.PersistentFlags().StringVar(&path, "path", "", "Notes directory or database file (env TALKTYPER_PATH)")
	rootCmd.PersistentFlags().StringVar(&key, "key", "", "Storage key of the history (env TALKTYPER_KEY)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Blob format: json, yaml (env TALKTYPER_FORMAT)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Refuse every write")
}

// openStore builds the store from the environment, overridden by flags.
func openStore(ctx context.Context, extra ...platform.Option) (*core.Store, error) {
	opts := append(cfg.Options(),
		platform.WithAdapter(adapter),
		platform.WithCodec(format),
		platform.WithKey(key),
		platform.WithLogger(slog.Default()),
		platform.WithReadOnly(readOnly),
		platform.WithWatcherErrorHandler(func(err error) {
			slog.Warn("watcher failed", "error", err)
		}),
	)
	if path != "" {
		opts = append(opts, platform.WithPath(path))
	}
	return platform.New(ctx, append(opts, extra...)...)
}

// interruptible returns a context cancelled by Ctrl-C.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
