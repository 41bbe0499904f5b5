// senseai TUI - a conversational health assistant for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/senseai-tui/internal/chat"
	"github.com/jeranaias/senseai-tui/internal/cli"
	"github.com/jeranaias/senseai-tui/internal/config"
	"github.com/jeranaias/senseai-tui/internal/geo"
	"github.com/jeranaias/senseai-tui/internal/indicator"
	"github.com/jeranaias/senseai-tui/internal/inference"
	"github.com/jeranaias/senseai-tui/internal/orchestrator"
	"github.com/jeranaias/senseai-tui/internal/storage"
	"github.com/jeranaias/senseai-tui/internal/telemetry"
	"github.com/jeranaias/senseai-tui/internal/timeline"
	"github.com/jeranaias/senseai-tui/internal/ui"
	"github.com/jeranaias/senseai-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdClassify:
		if err := cli.HandleClassify(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdTranscripts:
		if err := cli.HandleTranscripts(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdLocate:
		if err := cli.HandleLocate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

// runTUI wires the application together and starts the interactive UI.
func runTUI(args cli.Args) {
	var cfg *config.Config
	var err error
	if args.Config != "" {
		cfg, err = config.LoadFromPath(args.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil && cfg == nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config
	if args.Lang != "" {
		cfg.DefaultLang = args.Lang
	}

	theme := styles.NewTheme(cfg.UI.Theme)

	entries := timeline.NewStore()
	indicators := indicator.NewManager()

	chatClient := chat.NewClientWithConfig(&chat.ClientConfig{
		BaseURL: cfg.Chat.BaseURL,
		Timeout: time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
	})

	engine := inference.NewEngine(inference.Config{
		ModelPath:    cfg.Inference.ModelPath,
		MetadataPath: cfg.Inference.MetadataPath,
	})

	// Reload model weights when the asset files change on disk. Reload only
	// resets the handle; the next classification performs the actual load.
	if cfg.Inference.WatchAssets {
		watcher, werr := inference.NewAssetWatcher(500*time.Millisecond, func() {
			engine.Reload()
		}, cfg.Inference.ModelPath, cfg.Inference.MetadataPath)
		if werr == nil {
			if werr := watcher.Watch(); werr == nil {
				defer watcher.Close()
			}
		}
	}

	var provider geo.PositionProvider
	if cfg.HasStaticPosition() {
		provider = geo.NewStaticProvider(cfg.Geo.StaticLat, cfg.Geo.StaticLon)
	} else {
		provider = geo.NewAbsentProvider()
	}
	locator := geo.NewLocator(provider, time.Duration(cfg.Geo.TimeoutSecs)*time.Second)
	urls := geo.NewURLBuilder(cfg.Geo.SearchTemplate, cfg.Geo.FallbackURL, cfg.Geo.Zoom)
	opener := geo.NewBrowserOpener()

	// Best-effort classification reporting; failures never block the UI.
	history, histErr := telemetry.OpenHistory(cfg.Telemetry.HistoryPath)
	if histErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: report history unavailable: %v\n", histErr)
		history = nil
	} else {
		defer history.Close()
	}
	reporter := telemetry.NewReporter(telemetry.ReporterConfig{
		BaseURL:       cfg.Chat.BaseURL,
		RatePerMinute: cfg.Telemetry.RatePerMinute,
		Enabled:       cfg.Telemetry.Enabled,
	}, history)

	transcripts, err := storage.NewTranscriptStoreWithDir(cfg.Transcripts.Dir)
	if err != nil {
		// Sessions won't persist but the app still works.
		fmt.Fprintf(os.Stderr, "Warning: could not initialize transcript storage: %v\n", err)
		transcripts = nil
	} else {
		transcripts.MaxTranscripts = cfg.Transcripts.MaxStored
	}

	orch := orchestrator.New(
		orchestrator.Config{
			ChatTimeout:     time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
			ClassifyTimeout: time.Duration(cfg.Inference.TimeoutSecs) * time.Second,
			DefaultLang:     cfg.DefaultLang,
		},
		entries,
		indicators,
		chatClient,
		engine,
		locator,
		urls,
		opener,
		reporter,
	)

	app := ui.NewApp(cfg, theme, orch, entries, indicators, engine, transcripts)

	if err := ui.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error running senseai: %v\n", err)
		os.Exit(1)
	}
}
