// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// locate_cmd.go - hospital search link command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/senseai-tui/internal/geo"
)

// HandleLocate prints a hospital search link. A configured static position
// yields a positioned link; otherwise the generic fallback is printed, so
// the command always produces a usable URL.
func HandleLocate(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	urls := geo.NewURLBuilder(cfg.Geo.SearchTemplate, cfg.Geo.FallbackURL, cfg.Geo.Zoom)

	var provider geo.PositionProvider
	if cfg.HasStaticPosition() {
		provider = geo.NewStaticProvider(cfg.Geo.StaticLat, cfg.Geo.StaticLon)
	} else {
		provider = geo.NewAbsentProvider()
	}

	timeout := time.Duration(cfg.Geo.TimeoutSecs) * time.Second
	locator := geo.NewLocator(provider, timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	coords, err := locator.Locate(ctx)
	if err != nil {
		if !args.Quiet {
			switch {
			case errors.Is(err, geo.ErrUnavailable):
				printWarning("No position source is configured; showing a generic search.")
			case errors.Is(err, geo.ErrDenied):
				printWarning("Position lookup did not complete; showing a generic search.")
			}
		}
		fmt.Println(urls.FallbackURL())
		return nil
	}

	fmt.Println(urls.SearchURL(coords))
	return nil
}
