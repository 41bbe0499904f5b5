// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry delivers best-effort classification reports to the
// backing service and keeps a local history of them.
//
// Reporting is strictly fire-and-forget: no error from this package is ever
// surfaced to the caller, so a dead endpoint can never degrade the
// conversation flow.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// REPORT TYPE
// =============================================================================

// Report is one classification outcome worth telling the service about.
type Report struct {
	// RequestID correlates the delivered report with the local history
	// record for the same classification.
	RequestID  string  `json:"request_id,omitempty"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// =============================================================================
// REPORTER
// =============================================================================

// ReporterConfig holds reporter settings.
type ReporterConfig struct {
	// BaseURL is the service base URL; the report path is appended.
	BaseURL string

	// Timeout bounds each delivery attempt.
	Timeout time.Duration

	// RatePerMinute caps deliveries; excess reports are dropped silently.
	RatePerMinute int

	// Enabled turns delivery on. A disabled reporter still records history.
	Enabled bool
}

// DefaultReporterConfig returns the standard reporter settings.
func DefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		BaseURL:       "http://127.0.0.1:8000",
		Timeout:       5 * time.Second,
		RatePerMinute: 30,
		Enabled:       true,
	}
}

// Reporter sends classification reports. Thread-safe.
type Reporter struct {
	config     ReporterConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	history    *History // optional
}

// NewReporter creates a reporter. Zero-value config fields are replaced
// with defaults. The history store is optional and may be nil.
func NewReporter(config ReporterConfig, history *History) *Reporter {
	def := DefaultReporterConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.RatePerMinute <= 0 {
		config.RatePerMinute = def.RatePerMinute
	}

	perSecond := rate.Limit(float64(config.RatePerMinute) / 60.0)

	return &Reporter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(perSecond, config.RatePerMinute),
		history:    history,
	}
}

// Send delivers one report. Best-effort: rate-limited excess is dropped,
// delivery failures are swallowed, and nothing is returned. The local
// history records the report either way.
func (r *Reporter) Send(ctx context.Context, report Report) {
	delivered := false
	if r.config.Enabled && r.limiter.Allow() {
		delivered = r.deliver(ctx, report)
	}

	if r.history != nil {
		// History failures are as unobservable as delivery failures.
		_ = r.history.Record(report, delivered)
	}
}

// deliver performs the one HTTP attempt. Never returns an error; the bool
// feeds the history record only.
func (r *Reporter) deliver(ctx context.Context, report Report) bool {
	body, err := json.Marshal(report)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.config.BaseURL+"/image-log", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
