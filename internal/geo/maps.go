// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import (
	"strconv"
	"strings"
)

// =============================================================================
// DESTINATION URL BUILDER
// =============================================================================

// Default map-search templates. Both are configuration values, not load-
// bearing facts about the map service.
const (
	// DefaultSearchTemplate embeds the coordinates and zoom level. The
	// {lat}, {lon} and {zoom} placeholders are substituted verbatim.
	DefaultSearchTemplate = "https://www.google.com/maps/search/hospitals+near+me/@{lat},{lon},{zoom}z"

	// DefaultFallbackURL is the coordinate-free generic search.
	DefaultFallbackURL = "https://www.google.com/maps/search/hospitals+near+me/"

	// DefaultZoom is the map zoom level for the coordinate form.
	DefaultZoom = 13
)

// URLBuilder produces map destination URLs. Both branches always yield a
// usable URL; there is no failure mode here.
type URLBuilder struct {
	searchTemplate string
	fallbackURL    string
	zoom           int
}

// NewURLBuilder creates a builder. Empty template or URL fields fall back
// to the defaults; a non-positive zoom falls back to DefaultZoom.
func NewURLBuilder(searchTemplate, fallbackURL string, zoom int) *URLBuilder {
	if searchTemplate == "" {
		searchTemplate = DefaultSearchTemplate
	}
	if fallbackURL == "" {
		fallbackURL = DefaultFallbackURL
	}
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &URLBuilder{
		searchTemplate: searchTemplate,
		fallbackURL:    fallbackURL,
		zoom:           zoom,
	}
}

// SearchURL returns the coordinate-parameterized destination URL.
func (b *URLBuilder) SearchURL(coords Coordinates) string {
	r := strings.NewReplacer(
		"{lat}", strconv.FormatFloat(coords.Lat, 'f', 6, 64),
		"{lon}", strconv.FormatFloat(coords.Lon, 'f', 6, 64),
		"{zoom}", strconv.Itoa(b.zoom),
	)
	return r.Replace(b.searchTemplate)
}

// FallbackURL returns the coordinate-free generic destination URL.
func (b *URLBuilder) FallbackURL() string {
	return b.fallbackURL
}
