// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - system status command.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/senseai-tui/internal/chat"
	"github.com/jeranaias/senseai-tui/internal/inference"
	"github.com/jeranaias/senseai-tui/internal/storage"
)

// HandleStatus checks the chat service, the local model assets, and the
// transcript store, and prints one line per subsystem.
func HandleStatus(args Args) {
	cfg, err := loadConfig(args)
	if err != nil {
		printError("Config: " + err.Error())
		os.Exit(1)
	}

	if !args.Quiet {
		fmt.Printf("senseai %s\n\n", Version)
	}

	// Chat service reachability
	client := chat.NewClientWithConfig(&chat.ClientConfig{
		BaseURL: cfg.Chat.BaseURL,
		Timeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.CheckHealth(ctx); err != nil {
		printWarning("Chat service: unreachable (" + cfg.Chat.BaseURL + ")")
	} else {
		printSuccess("Chat service: " + cfg.Chat.BaseURL)
	}

	// Local model assets
	engine := inference.NewEngine(inference.Config{
		ModelPath:    cfg.Inference.ModelPath,
		MetadataPath: cfg.Inference.MetadataPath,
	})
	if engine.AssetsPresent() {
		printSuccess("Image model: " + cfg.Inference.ModelPath)
	} else {
		printWarning("Image model: assets missing (" + cfg.Inference.ModelPath + ")")
	}

	// Transcript store
	store, err := storage.NewTranscriptStoreWithDir(cfg.Transcripts.Dir)
	if err != nil {
		printWarning("Transcripts: " + err.Error())
	} else {
		metas, err := store.List()
		if err != nil {
			printWarning("Transcripts: " + err.Error())
		} else {
			printInfo(fmt.Sprintf("Transcripts: %d saved in %s", len(metas), cfg.Transcripts.Dir))
		}
	}

	// Telemetry
	if cfg.Telemetry.Enabled {
		printInfo("Telemetry: enabled (anonymous classification reports)")
	} else {
		printInfo("Telemetry: disabled")
	}

	if args.Verbose {
		fmt.Println()
		fmt.Printf("  language:  %s\n", cfg.DefaultLang)
		fmt.Printf("  geo zoom:  %d\n", cfg.Geo.Zoom)
		fmt.Printf("  theme:     %s\n", cfg.UI.Theme)
	}
}
