// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - shared output helpers for CLI commands.
package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/jeranaias/senseai-tui/internal/config"
	"github.com/jeranaias/senseai-tui/internal/ui/styles"
)

// isTTY reports whether stdout is an interactive terminal. Styled output
// is only emitted on a TTY so piped output stays clean.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printSuccess prints a success line, styled when on a TTY.
func printSuccess(msg string) {
	if isTTY() {
		fmt.Println(styles.RenderSuccess(msg))
	} else {
		fmt.Println(styles.StatusIndicators.Success + " " + msg)
	}
}

// printError prints an error line to stderr, styled when on a TTY.
func printError(msg string) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintln(os.Stderr, styles.RenderError(msg))
	} else {
		fmt.Fprintln(os.Stderr, styles.StatusIndicators.Error+" "+msg)
	}
}

// printWarning prints a warning line, styled when on a TTY.
func printWarning(msg string) {
	if isTTY() {
		fmt.Println(styles.RenderWarning(msg))
	} else {
		fmt.Println(styles.StatusIndicators.Warning + " " + msg)
	}
}

// printInfo prints an informational line, styled when on a TTY.
func printInfo(msg string) {
	if isTTY() {
		fmt.Println(styles.RenderInfo(msg))
	} else {
		fmt.Println(styles.StatusIndicators.Info + " " + msg)
	}
}

// loadConfig loads configuration, honoring the --config flag.
func loadConfig(args Args) (*config.Config, error) {
	if args.Config != "" {
		return config.LoadFromPath(args.Config)
	}
	return config.Load()
}
