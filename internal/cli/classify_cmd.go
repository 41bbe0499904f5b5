// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// classify_cmd.go - one-shot image classification without the TUI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/senseai-tui/internal/inference"
	"github.com/jeranaias/senseai-tui/internal/util"
)

// HandleClassify runs the local model over a single image file and prints
// the result. The image never leaves the machine.
func HandleClassify(args Args) error {
	if args.File == "" {
		return errors.New("usage: senseai classify <image>")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args.File)
	if err != nil {
		return fmt.Errorf("cannot read image: %w", err)
	}

	engine := inference.NewEngine(inference.Config{
		ModelPath:    cfg.Inference.ModelPath,
		MetadataPath: cfg.Inference.MetadataPath,
	})

	timeout := time.Duration(cfg.Inference.TimeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := engine.Classify(ctx, data, args.File)
	if err != nil {
		switch {
		case errors.Is(err, inference.ErrModelUnavailable):
			return errors.New("the image model is not available; check " + cfg.Inference.ModelPath)
		case errors.Is(err, inference.ErrDecode):
			return errors.New("that image could not be read; try a PNG or JPEG")
		default:
			return err
		}
	}

	pct := util.FloatToStringPrec(result.Confidence*100, 1)
	if args.Quiet {
		fmt.Printf("%s\t%s\n", result.Label, pct)
		return nil
	}

	printSuccess(result.Label + " (" + pct + "% confidence)")
	fmt.Println("\nThis is not a medical diagnosis. If you are concerned, talk to a doctor.")
	return nil
}
