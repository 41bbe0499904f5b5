// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for senseai.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdStatus
	CmdConfig
	CmdClassify
	CmdTranscripts
	CmdLocate
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Lang    string
	Config  string // alternate config file path

	// Command-specific
	File       string
	Subcommand string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `senseai - a conversational health assistant for the terminal

It provides:
  - Chat with a health assistant service
  - Local on-device image analysis (no photo leaves your machine)
  - Nearby hospital lookup via your browser
  - Saved conversation transcripts

Usage:
  senseai                      Start TUI (default)
  senseai status, s            Check the assistant service and local model
  senseai config [show|init|path]
                               Configuration management
  senseai classify <image>     Analyze an image without starting the TUI
  senseai transcripts [list|show|export|delete|clear]
                               Saved conversation management
  senseai locate               Print the hospital search link
  senseai version, -v          Show version
  senseai help, -h             Show this help

Global flags:
  --lang TAG                   Reply language (BCP 47, e.g. de, pt-BR)
  --config PATH                Use an alternate config file
  --quiet                      Suppress informational output
  --verbose                    Show extra diagnostics

Transcript commands:
  senseai transcripts list             List saved conversations
  senseai transcripts show <id|index>  Print a conversation
  senseai transcripts export <id>      Export as markdown to stdout
  senseai transcripts delete <id>      Delete a conversation
  senseai transcripts clear            Delete all conversations

Environment:
  SENSEAI_CHAT_URL             Chat service base URL
  SENSEAI_LANG                 Default reply language
  SENSEAI_MODEL_PATH           Local model weights path
  SENSEAI_TELEMETRY            Set to 0 to disable anonymous reports
`

// Parse reads os.Args and returns the command to run with its arguments.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "config":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdConfig, parsed

	case "classify", "analyze":
		if len(remaining) > 0 {
			parsed.File = remaining[0]
		}
		return CmdClassify, parsed

	case "transcripts", "transcript", "history":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdTranscripts, parsed

	case "locate", "hospitals":
		return CmdLocate, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags, returning the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--quiet", "-q":
			parsed.Quiet = true
		case "--verbose":
			parsed.Verbose = true
		case "--lang":
			if i+1 < len(args) {
				i++
				parsed.Lang = args[i]
			}
		case "--config":
			if i+1 < len(args) {
				i++
				parsed.Config = args[i]
			}
		default:
			remaining = append(remaining, args[i])
		}
	}

	return remaining, parsed
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.Quiet {
		fmt.Println(Version)
		return
	}
	fmt.Printf("senseai %s\n", Version)
	if args.Verbose {
		fmt.Printf("  commit: %s\n", GitCommit)
		fmt.Printf("  built:  %s\n", BuildDate)
	}
}
