// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// senseai.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.senseai/config.toml
//   - ~/.senseai/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/senseai-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete senseai configuration.
type Config struct {
	// General settings
	Version     string `toml:"version" json:"version"`
	DefaultLang string `toml:"default_lang" json:"default_lang"`

	// Chat service configuration
	Chat ChatConfig `toml:"chat" json:"chat"`

	// Local classification model configuration
	Inference InferenceConfig `toml:"inference" json:"inference"`

	// Geolocation and hospital lookup configuration
	Geo GeoConfig `toml:"geo" json:"geo"`

	// Best-effort classification reporting configuration
	Telemetry TelemetryConfig `toml:"telemetry" json:"telemetry"`

	// Transcript persistence configuration
	Transcripts TranscriptsConfig `toml:"transcripts" json:"transcripts"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// ChatConfig contains chat service configuration.
type ChatConfig struct {
	// BaseURL is the URL of the chat service
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds each chat request in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// InferenceConfig contains local classification model configuration.
type InferenceConfig struct {
	// ModelPath is the model definition file (empty = ~/.senseai/model/model.json)
	ModelPath string `toml:"model_path" json:"model_path"`
	// MetadataPath is the label table file (empty = ~/.senseai/model/metadata.json)
	MetadataPath string `toml:"metadata_path" json:"metadata_path"`
	// TimeoutSecs bounds one classification pass in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// WatchAssets reloads the model when its files change on disk
	WatchAssets bool `toml:"watch_assets" json:"watch_assets"`
}

// GeoConfig contains geolocation and hospital lookup configuration.
type GeoConfig struct {
	// TimeoutSecs bounds the position query in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// SearchTemplate is the coordinate destination URL; {lat}, {lon} and
	// {zoom} are substituted
	SearchTemplate string `toml:"search_template" json:"search_template"`
	// FallbackURL is the coordinate-free generic destination URL
	FallbackURL string `toml:"fallback_url" json:"fallback_url"`
	// Zoom is the map zoom level for the coordinate form
	Zoom int `toml:"zoom" json:"zoom"`
	// StaticLat/StaticLon configure a fixed position; both zero means the
	// position capability is absent
	StaticLat float64 `toml:"static_lat" json:"static_lat"`
	StaticLon float64 `toml:"static_lon" json:"static_lon"`
}

// TelemetryConfig contains best-effort reporting configuration.
type TelemetryConfig struct {
	// Enabled turns classification report delivery on
	Enabled bool `toml:"enabled" json:"enabled"`
	// RatePerMinute caps deliveries; excess reports are dropped
	RatePerMinute int `toml:"rate_per_minute" json:"rate_per_minute"`
	// HistoryPath is the local report history database (empty = ~/.senseai/reports.db)
	HistoryPath string `toml:"history_path" json:"history_path"`
}

// TranscriptsConfig contains transcript persistence configuration.
type TranscriptsConfig struct {
	// Dir is the transcripts directory (empty = ~/.senseai/transcripts)
	Dir string `toml:"dir" json:"dir"`
	// MaxStored limits stored transcripts (0 = unlimited)
	MaxStored int `toml:"max_stored" json:"max_stored"`
	// AutoSave persists the timeline after every completed action
	AutoSave bool `toml:"auto_save" json:"auto_save"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowConfidence displays classification confidence in the UI
	ShowConfidence bool `toml:"show_confidence" json:"show_confidence"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version:     "1.0.0",
		DefaultLang: "en",

		Chat: ChatConfig{
			BaseURL:     "http://127.0.0.1:8000",
			TimeoutSecs: 30,
		},

		Inference: InferenceConfig{
			TimeoutSecs: 15,
			WatchAssets: true,
		},

		Geo: GeoConfig{
			TimeoutSecs: 10,
			Zoom:        13,
		},

		Telemetry: TelemetryConfig{
			Enabled:       true,
			RatePerMinute: 30,
		},

		Transcripts: TranscriptsConfig{
			MaxStored: 100,
			AutoSave:  true,
		},

		UI: UIConfig{
			Theme:          "dark",
			ShowConfidence: true,
			CompactMode:    false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the senseai configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".senseai"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// finishLoad applies overrides, defaults and validation in order.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Write header comment
	fmt.Fprintln(file, "# senseai configuration file")
	fmt.Fprintln(file, "# Generated by senseai - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SENSEAI_CHAT_URL: overrides chat.base_url
//   - SENSEAI_LANG: overrides default_lang
//   - SENSEAI_MODEL_PATH: overrides inference.model_path
//   - SENSEAI_METADATA_PATH: overrides inference.metadata_path
//   - SENSEAI_TELEMETRY: set to "0" or "false" to disable report delivery
//   - SENSEAI_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if chatURL := os.Getenv("SENSEAI_CHAT_URL"); chatURL != "" {
		c.Chat.BaseURL = chatURL
	}

	if lang := os.Getenv("SENSEAI_LANG"); lang != "" {
		c.DefaultLang = lang
	}

	if modelPath := os.Getenv("SENSEAI_MODEL_PATH"); modelPath != "" {
		c.Inference.ModelPath = modelPath
	}

	if metaPath := os.Getenv("SENSEAI_METADATA_PATH"); metaPath != "" {
		c.Inference.MetadataPath = metaPath
	}

	if telemetry := os.Getenv("SENSEAI_TELEMETRY"); telemetry != "" {
		c.Telemetry.Enabled = telemetry != "0" && strings.ToLower(telemetry) != "false"
	}

	if theme := os.Getenv("SENSEAI_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if timeout := os.Getenv("SENSEAI_CHAT_TIMEOUT_SECS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.Chat.TimeoutSecs = secs
		}
	}
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults sets default values for any missing or zero-value
// configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.DefaultLang == "" {
		c.DefaultLang = defaults.DefaultLang
	}

	if c.Chat.BaseURL == "" {
		c.Chat.BaseURL = defaults.Chat.BaseURL
	}
	if c.Chat.TimeoutSecs <= 0 {
		c.Chat.TimeoutSecs = defaults.Chat.TimeoutSecs
	}

	if c.Inference.ModelPath == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Inference.ModelPath = filepath.Join(dir, "model", "model.json")
		}
	}
	if c.Inference.MetadataPath == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Inference.MetadataPath = filepath.Join(dir, "model", "metadata.json")
		}
	}
	if c.Inference.TimeoutSecs <= 0 {
		c.Inference.TimeoutSecs = defaults.Inference.TimeoutSecs
	}

	if c.Geo.TimeoutSecs <= 0 {
		c.Geo.TimeoutSecs = defaults.Geo.TimeoutSecs
	}
	if c.Geo.Zoom <= 0 {
		c.Geo.Zoom = defaults.Geo.Zoom
	}

	if c.Telemetry.RatePerMinute <= 0 {
		c.Telemetry.RatePerMinute = defaults.Telemetry.RatePerMinute
	}
	if c.Telemetry.HistoryPath == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Telemetry.HistoryPath = filepath.Join(dir, "reports.db")
		}
	}

	if c.Transcripts.Dir == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Transcripts.Dir = filepath.Join(dir, "transcripts")
		}
	}
	if c.Transcripts.MaxStored < 0 {
		c.Transcripts.MaxStored = defaults.Transcripts.MaxStored
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Chat URL must parse and carry a scheme.
	if c.Chat.BaseURL != "" {
		u, err := url.Parse(c.Chat.BaseURL)
		if err != nil || u.Scheme == "" {
			errs = append(errs, ValidationError{
				Field:   "chat.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Chat.BaseURL),
			})
		}
	}

	if c.Chat.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.Inference.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "inference.timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.Geo.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "geo.timeout_secs",
			Message: "must be non-negative",
		})
	}
	if c.Geo.Zoom < 0 || c.Geo.Zoom > 21 {
		errs = append(errs, ValidationError{
			Field:   "geo.zoom",
			Message: fmt.Sprintf("zoom must be 0-21, got %d", c.Geo.Zoom),
		})
	}
	if c.Geo.StaticLat < -90 || c.Geo.StaticLat > 90 {
		errs = append(errs, ValidationError{
			Field:   "geo.static_lat",
			Message: fmt.Sprintf("latitude must be -90..90, got %v", c.Geo.StaticLat),
		})
	}
	if c.Geo.StaticLon < -180 || c.Geo.StaticLon > 180 {
		errs = append(errs, ValidationError{
			Field:   "geo.static_lon",
			Message: fmt.Sprintf("longitude must be -180..180, got %v", c.Geo.StaticLon),
		})
	}

	if c.Telemetry.RatePerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "telemetry.rate_per_minute",
			Message: "must be non-negative",
		})
	}

	if c.Transcripts.MaxStored < 0 || c.Transcripts.MaxStored > 100000 {
		errs = append(errs, ValidationError{
			Field:   "transcripts.max_stored",
			Message: fmt.Sprintf("max_stored must be 0-100000, got %d", c.Transcripts.MaxStored),
		})
	}

	// Validate UI theme
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GEO CAPABILITY
// =============================================================================

// HasStaticPosition reports whether a fixed position was configured.
// Both coordinates zero is read as "no position", not "null island".
func (c *Config) HasStaticPosition() bool {
	return c.Geo.StaticLat != 0 || c.Geo.StaticLon != 0
}
