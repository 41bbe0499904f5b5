// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - configuration command.
package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/senseai-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig(args)
	case "init":
		return initConfig(args)
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return errors.New("unknown config subcommand: " + args.Subcommand)
	}
}

func showConfig(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	fmt.Printf("language:        %s\n", cfg.DefaultLang)
	fmt.Printf("chat url:        %s\n", cfg.Chat.BaseURL)
	fmt.Printf("chat timeout:    %ds\n", cfg.Chat.TimeoutSecs)
	fmt.Printf("model path:      %s\n", cfg.Inference.ModelPath)
	fmt.Printf("metadata path:   %s\n", cfg.Inference.MetadataPath)
	fmt.Printf("watch assets:    %t\n", cfg.Inference.WatchAssets)
	fmt.Printf("geo timeout:     %ds\n", cfg.Geo.TimeoutSecs)
	fmt.Printf("geo zoom:        %d\n", cfg.Geo.Zoom)
	fmt.Printf("telemetry:       %t\n", cfg.Telemetry.Enabled)
	fmt.Printf("transcripts dir: %s\n", cfg.Transcripts.Dir)
	fmt.Printf("auto save:       %t\n", cfg.Transcripts.AutoSave)
	fmt.Printf("theme:           %s\n", cfg.UI.Theme)
	return nil
}

// initConfig writes a default config file for editing.
func initConfig(args Args) error {
	cfg := config.Default()
	cfg.SetDefaults()

	if args.Config != "" {
		if err := config.SaveTOML(cfg, args.Config); err != nil {
			return err
		}
		printSuccess("Wrote " + args.Config)
		return nil
	}

	if err := config.Save(cfg); err != nil {
		return err
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	printSuccess("Wrote " + path)
	return nil
}
