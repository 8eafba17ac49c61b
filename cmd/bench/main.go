package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/talktyper/internal/platform"
	"github.com/aretw0/talktyper/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes in the history")
	appends := flag.Int("appends", 100, "Number of timed appends")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "talktyper_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	// Every write rewrites the whole blob, so append cost grows with history size.
	fmt.Printf("Benchmark (%d notes, %d appends)\n", *count, *appends)
	fmt.Printf("--------------------------------------------------\n")
	for _, adapter := range []string{"memory", "fs", "sqlite"} {
		for _, format := range []string{"json", "yaml"} {
			path := filepath.Join(benchDir, adapter+"-"+format)
			if err := run(ctx, logger, adapter, format, path, *count, *appends); err != nil {
				fmt.Printf("  %-6s %-4s failed: %v\n", adapter, format, err)
			}
		}
	}
	fmt.Printf("--------------------------------------------------\n")
}

func run(ctx context.Context, logger *slog.Logger, adapter, format, path string, count, appends int) error {
	opts := []platform.Option{
		platform.WithAdapter(adapter),
		platform.WithCodec(format),
		platform.WithPath(path),
		platform.WithLogger(logger),
	}
	if adapter == "fs" || adapter == "sqlite" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return err
		}
	}

	storage, cdc, err := platform.Init(ctx, opts...)
	if err != nil {
		return err
	}
	seed, err := cdc.Encode(generate(count))
	if err != nil {
		return err
	}
	if err := storage.Save(ctx, core.DefaultKey, seed); err != nil {
		return err
	}

	store := core.NewStore(storage, cdc, core.WithLogger(logger))
	defer store.Close()

	start := time.Now()
	if _, err := store.Initialize(ctx); err != nil {
		return err
	}
	load := time.Since(start)

	start = time.Now()
	for i := range appends {
		if err := store.Append(ctx, store.Stamp(), fmt.Sprintf("Appended note %d", i)); err != nil {
			return err
		}
	}
	perAppend := time.Since(start) / time.Duration(max(appends, 1))

	fmt.Printf("  %-6s %-4s blob: %7d bytes  load: %-12v append: %v\n", adapter, format, len(seed), load, perAppend)
	return nil
}

func generate(count int) []core.Note {
	notes := make([]core.Note, count)
	base := time.Now().Add(-time.Duration(count) * time.Minute)
	for i := range notes {
		notes[i] = core.Note{
			Timestamp:     core.Timestamp(base.Add(time.Duration(i)*time.Minute), core.DefaultTimestampLayout),
			Transcription: fmt.Sprintf("Benchmark note %d. This is a dictated test note.", i),
		}
	}
	return notes
}

