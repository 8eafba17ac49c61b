// Package talktyper is the composition root of TalkTyper, a voice note-taking
// tool.
//
// Notes are timestamped transcriptions kept in an ordered history. The history
// lives in memory inside a core.Store and is written back in full, as one blob
// under one key, after every change. Storage is pluggable: a directory of
// files (default), SQLite, Redis or plain memory.
//
// Usage:
//
//	store, err := talktyper.New(ctx,
//		talktyper.WithPath("./notes"),
//		talktyper.WithRenderer(render.Text{W: os.Stdout}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	// Manual entry: trimmed, blank input is ignored.
//	_, err = store.AppendManual(ctx, store.Stamp(), "buy milk")
package talktyper
