// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geo wraps the permission-gated position query and the map
// destination URL construction for the hospital lookup.
package geo

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrDenied means the position query was refused or exceeded its
	// timeout. The two are deliberately indistinguishable to callers, and
	// neither is retried automatically.
	ErrDenied = errors.New("position request denied")

	// ErrUnavailable means no position capability exists at all. Checked
	// synchronously before any asynchronous attempt.
	ErrUnavailable = errors.New("position capability unavailable")
)

// =============================================================================
// TYPES
// =============================================================================

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// PositionProvider is the sensor abstraction behind the locator.
type PositionProvider interface {
	// Available reports whether the capability exists. Synchronous and
	// deterministic.
	Available() bool

	// Position performs the permission-gated query. Refusal is reported
	// as ErrDenied.
	Position(ctx context.Context) (Coordinates, error)
}

// =============================================================================
// STATIC PROVIDER
// =============================================================================

// StaticProvider serves a fixed position from configuration. An unset
// provider reports the capability as absent.
type StaticProvider struct {
	coords Coordinates
	set    bool
}

// NewStaticProvider creates a provider serving the given coordinates.
func NewStaticProvider(lat, lon float64) *StaticProvider {
	return &StaticProvider{coords: Coordinates{Lat: lat, Lon: lon}, set: true}
}

// NewAbsentProvider creates a provider with no capability.
func NewAbsentProvider() *StaticProvider {
	return &StaticProvider{}
}

// Available reports whether a position was configured.
func (p *StaticProvider) Available() bool {
	return p.set
}

// Position returns the configured position.
func (p *StaticProvider) Position(ctx context.Context) (Coordinates, error) {
	if !p.set {
		return Coordinates{}, ErrUnavailable
	}
	return p.coords, nil
}

// =============================================================================
// LOCATOR
// =============================================================================

// Locator runs position queries against a provider with a bounded timeout.
// Every failure mode collapses to ErrDenied or ErrUnavailable; there is no
// third outcome.
type Locator struct {
	provider PositionProvider
	timeout  time.Duration
}

// DefaultTimeout bounds the position query when none is configured.
const DefaultTimeout = 10 * time.Second

// NewLocator creates a locator. A zero timeout falls back to DefaultTimeout.
func NewLocator(provider PositionProvider, timeout time.Duration) *Locator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Locator{provider: provider, timeout: timeout}
}

// Locate performs one bounded position query.
//
// Returns ErrUnavailable when the capability is absent, ErrDenied when the
// query is refused or times out, and the coordinates otherwise.
func (l *Locator) Locate(ctx context.Context) (Coordinates, error) {
	if l.provider == nil || !l.provider.Available() {
		return Coordinates{}, ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	type outcome struct {
		coords Coordinates
		err    error
	}

	// Buffered so a late provider return after timeout is discarded, not
	// leaked as a blocked goroutine.
	done := make(chan outcome, 1)
	go func() {
		coords, err := l.provider.Position(ctx)
		done <- outcome{coords: coords, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(out.err, ErrUnavailable) {
				return Coordinates{}, ErrUnavailable
			}
			// Refusal and every other query failure collapse together.
			return Coordinates{}, ErrDenied
		}
		return out.coords, nil

	case <-ctx.Done():
		// Timeout is indistinguishable from refusal.
		return Coordinates{}, ErrDenied
	}
}
