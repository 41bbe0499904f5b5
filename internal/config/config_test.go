// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Chat.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Chat.BaseURL = %q", cfg.Chat.BaseURL)
	}
	if cfg.Chat.TimeoutSecs != 30 {
		t.Errorf("Chat.TimeoutSecs = %d, want 30", cfg.Chat.TimeoutSecs)
	}
	if cfg.DefaultLang != "en" {
		t.Errorf("DefaultLang = %q, want en", cfg.DefaultLang)
	}
	if cfg.Geo.Zoom != 13 {
		t.Errorf("Geo.Zoom = %d, want 13", cfg.Geo.Zoom)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("telemetry should be enabled by default")
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_lang = "de"

[chat]
base_url = "http://chat.example:9000"
timeout_secs = 5

[geo]
zoom = 15
static_lat = 48.1
static_lon = 11.5

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.DefaultLang != "de" {
		t.Errorf("DefaultLang = %q, want de", cfg.DefaultLang)
	}
	if cfg.Chat.BaseURL != "http://chat.example:9000" {
		t.Errorf("Chat.BaseURL = %q", cfg.Chat.BaseURL)
	}
	if cfg.Chat.TimeoutSecs != 5 {
		t.Errorf("Chat.TimeoutSecs = %d, want 5", cfg.Chat.TimeoutSecs)
	}
	if cfg.Geo.Zoom != 15 {
		t.Errorf("Geo.Zoom = %d, want 15", cfg.Geo.Zoom)
	}
	if !cfg.HasStaticPosition() {
		t.Error("static position should be set")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q, want light", cfg.UI.Theme)
	}

	// Untouched sections keep their defaults.
	if cfg.Telemetry.RatePerMinute != 30 {
		t.Errorf("Telemetry.RatePerMinute = %d, want 30", cfg.Telemetry.RatePerMinute)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"default_lang": "fr", "chat": {"base_url": "http://localhost:1234"}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.DefaultLang != "fr" {
		t.Errorf("DefaultLang = %q, want fr", cfg.DefaultLang)
	}
	if cfg.Chat.BaseURL != "http://localhost:1234" {
		t.Errorf("Chat.BaseURL = %q", cfg.Chat.BaseURL)
	}
}

func TestLoadFromPathInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SENSEAI_CHAT_URL", "http://override:8080")
	t.Setenv("SENSEAI_LANG", "es")
	t.Setenv("SENSEAI_TELEMETRY", "false")
	t.Setenv("SENSEAI_THEME", "auto")
	t.Setenv("SENSEAI_CHAT_TIMEOUT_SECS", "7")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Chat.BaseURL != "http://override:8080" {
		t.Errorf("Chat.BaseURL = %q", cfg.Chat.BaseURL)
	}
	if cfg.DefaultLang != "es" {
		t.Errorf("DefaultLang = %q, want es", cfg.DefaultLang)
	}
	if cfg.Telemetry.Enabled {
		t.Error("SENSEAI_TELEMETRY=false should disable telemetry")
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("UI.Theme = %q, want auto", cfg.UI.Theme)
	}
	if cfg.Chat.TimeoutSecs != 7 {
		t.Errorf("Chat.TimeoutSecs = %d, want 7", cfg.Chat.TimeoutSecs)
	}
}

func TestEnvOverrideIgnoresBadTimeout(t *testing.T) {
	t.Setenv("SENSEAI_CHAT_TIMEOUT_SECS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Chat.TimeoutSecs != 30 {
		t.Errorf("Chat.TimeoutSecs = %d, want default 30", cfg.Chat.TimeoutSecs)
	}
}

func TestSetDefaultsFillsPaths(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Inference.ModelPath == "" {
		t.Error("ModelPath should default under the config dir")
	}
	if !strings.HasSuffix(cfg.Inference.ModelPath, filepath.Join("model", "model.json")) {
		t.Errorf("unexpected ModelPath %q", cfg.Inference.ModelPath)
	}
	if cfg.Telemetry.HistoryPath == "" {
		t.Error("HistoryPath should have a default")
	}
	if cfg.Transcripts.Dir == "" {
		t.Error("Transcripts.Dir should have a default")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad chat url", func(c *Config) { c.Chat.BaseURL = "://bad" }, "chat.base_url"},
		{"negative chat timeout", func(c *Config) { c.Chat.TimeoutSecs = -1 }, "chat.timeout_secs"},
		{"zoom out of range", func(c *Config) { c.Geo.Zoom = 50 }, "geo.zoom"},
		{"latitude out of range", func(c *Config) { c.Geo.StaticLat = 120 }, "geo.static_lat"},
		{"longitude out of range", func(c *Config) { c.Geo.StaticLon = -200 }, "geo.static_lon"},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention field %s", err.Error(), tt.field)
			}
		})
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	// Point the config dir at a temp home so Save does not touch the real one.
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.DefaultLang = "it"
	cfg.Chat.BaseURL = "http://roundtrip:8000"

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.DefaultLang != "it" {
		t.Errorf("DefaultLang = %q, want it", loaded.DefaultLang)
	}
	if loaded.Chat.BaseURL != "http://roundtrip:8000" {
		t.Errorf("Chat.BaseURL = %q", loaded.Chat.BaseURL)
	}
}

func TestHasStaticPosition(t *testing.T) {
	cfg := Default()
	if cfg.HasStaticPosition() {
		t.Error("zero coordinates should read as no position")
	}

	cfg.Geo.StaticLat = 48.1
	if !cfg.HasStaticPosition() {
		t.Error("non-zero latitude should read as a position")
	}
}
