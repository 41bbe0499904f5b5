// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the senseai command-line interface.
//
// Parse reads os.Args into an Args struct and a Command value; main
// dispatches on the command. Global flags (--quiet, --verbose, --lang,
// --config) may appear before the command name.
//
// Commands:
//
//	senseai              launch the interactive TUI
//	senseai status       check chat backend, model assets, transcripts
//	senseai config       show, init, or locate the config file
//	senseai classify F   classify an image file from the terminal
//	senseai transcripts  list, show, export, or delete saved sessions
//	senseai locate       print a hospital search URL for the configured position
//	senseai version      print build information
//
// Output helpers respect TTY detection: styled indicators on a
// terminal, plain ASCII prefixes when piped.
package cli
