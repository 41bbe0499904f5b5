// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcripts_cmd.go - saved conversation management.
package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jeranaias/senseai-tui/internal/storage"
)

// HandleTranscripts dispatches the transcript subcommands.
func HandleTranscripts(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	store, err := storage.NewTranscriptStoreWithDir(cfg.Transcripts.Dir)
	if err != nil {
		return err
	}
	store.MaxTranscripts = cfg.Transcripts.MaxStored

	switch args.Subcommand {
	case "", "list":
		return listTranscripts(store)
	case "show":
		return showTranscript(store, args.Raw)
	case "export":
		return exportTranscript(store, args.Raw)
	case "delete", "rm":
		return deleteTranscript(store, args.Raw)
	case "clear":
		return store.Clear()
	default:
		return errors.New("unknown transcripts subcommand: " + args.Subcommand)
	}
}

func listTranscripts(store *storage.TranscriptStore) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	if len(metas) == 0 {
		fmt.Println("No saved conversations.")
		return nil
	}

	for i, meta := range metas {
		fmt.Printf("%3d  %s  %s  %3d entries  %s\n",
			i+1,
			meta.ID,
			meta.UpdatedAt.Format("2006-01-02 15:04"),
			meta.EntryCount,
			meta.Preview,
		)
	}
	return nil
}

// resolveTranscript loads a transcript by ID, or by 1-based list index.
func resolveTranscript(store *storage.TranscriptStore, ref string) (*storage.StoredTranscript, error) {
	if idx, err := strconv.Atoi(ref); err == nil {
		return store.LoadByIndex(idx - 1)
	}
	return store.Load(ref)
}

func showTranscript(store *storage.TranscriptStore, raw []string) error {
	if len(raw) == 0 {
		return errors.New("usage: senseai transcripts show <id|index>")
	}

	tr, err := resolveTranscript(store, raw[0])
	if err != nil {
		return err
	}

	for _, entry := range tr.Entries {
		fmt.Printf("[%s] %s: %s\n",
			entry.CreatedAt.Format("15:04"),
			entry.Origin.DisplayName(),
			entry.DisplayContent(),
		)
	}
	return nil
}

func exportTranscript(store *storage.TranscriptStore, raw []string) error {
	if len(raw) == 0 {
		return errors.New("usage: senseai transcripts export <id|index>")
	}

	tr, err := resolveTranscript(store, raw[0])
	if err != nil {
		return err
	}

	fmt.Print(tr.ExportMarkdown())
	return nil
}

func deleteTranscript(store *storage.TranscriptStore, raw []string) error {
	if len(raw) == 0 {
		return errors.New("usage: senseai transcripts delete <id>")
	}
	if err := store.Delete(raw[0]); err != nil {
		return err
	}
	printSuccess("Deleted " + raw[0])
	return nil
}
