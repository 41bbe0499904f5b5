// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import (
	"fmt"
	"os/exec"
	"runtime"
)

// =============================================================================
// URL OPENER
// =============================================================================

// Opener hands a destination URL to the user's environment.
type Opener interface {
	Open(url string) error
}

// BrowserOpener opens URLs in the platform's default browser.
type BrowserOpener struct{}

// NewBrowserOpener creates a platform browser opener.
func NewBrowserOpener() *BrowserOpener {
	return &BrowserOpener{}
}

// Open launches the default browser for the URL.
func (BrowserOpener) Open(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// Quoted empty string for the window title so the URL is not
		// mistaken for one.
		cmd = exec.Command("cmd", "/c", "start", `""`, url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
