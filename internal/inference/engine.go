// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package inference wraps the locally-loaded image classification model.
package inference

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrModelUnavailable means the model assets are absent or failed to
	// load. Recoverable: chat and geolocation keep working without local
	// classification.
	ErrModelUnavailable = errors.New("classification model unavailable")

	// ErrDecode means the submitted image is empty or corrupt.
	ErrDecode = errors.New("could not decode image")
)

// =============================================================================
// STATE TYPE
// =============================================================================

// State is the model handle lifecycle state.
type State int

const (
	// StateUnloaded means no load has been attempted yet.
	StateUnloaded State = iota

	// StateLoading means a load attempt is in flight.
	StateLoading

	// StateReady means the model and label table are usable.
	StateReady

	// StateUnavailable means the load attempt failed. This is a stable
	// negative result: it is never retried automatically within a session,
	// only by an explicit Reload.
	StateUnavailable
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// =============================================================================
// RESULT TYPE
// =============================================================================

// Result is the outcome of one classification pass.
type Result struct {
	// Label is the class name from the label table, or "class_<idx>" when
	// the table is shorter than the model's output width.
	Label string

	// Confidence is the argmax score in [0, 1]. Always reported, even when
	// very low: thresholding is a presentation-layer policy.
	Confidence float64

	// ImageRef identifies the source image.
	ImageRef string
}

// =============================================================================
// ENGINE CONFIGURATION
// =============================================================================

// Config holds the asset locations for the inference engine.
type Config struct {
	// ModelPath is the model definition JSON (optional asset).
	ModelPath string

	// MetadataPath is the metadata JSON carrying the label table (optional
	// asset; absence degrades to synthesized labels, not failure).
	MetadataPath string
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the process-wide classification resource. The model is loaded
// lazily exactly once: concurrent or repeated Load calls while a load is in
// flight attach to the same attempt and observe the same outcome.
//
// The Engine is thread-safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	state   State
	loading chan struct{} // closed when the in-flight load settles
	loadErr error

	predictor Predictor
	labels    []string

	config Config
}

// NewEngine creates an engine in the unloaded state. No file is touched
// until the first Load or Classify call.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// NewEngineWithPredictor creates a ready engine around an existing predictor
// and label table. Used by callers that assemble the model themselves, and
// by tests.
func NewEngineWithPredictor(p Predictor, labels []string) *Engine {
	return &Engine{
		state:     StateReady,
		predictor: p,
		labels:    labels,
	}
}

// GetState returns the current lifecycle state.
func (e *Engine) GetState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Labels returns the loaded label table (nil until ready).
func (e *Engine) Labels() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.labels
}

// =============================================================================
// LOAD
// =============================================================================

// Load brings the model to the ready state. Idempotent:
//   - ready: returns nil immediately
//   - unavailable: returns ErrModelUnavailable immediately (stable negative)
//   - loading: waits for the in-flight attempt and returns its outcome
//   - unloaded: performs the one load attempt
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateReady:
		e.mu.Unlock()
		return nil

	case StateUnavailable:
		e.mu.Unlock()
		return ErrModelUnavailable

	case StateLoading:
		// Attach to the in-flight attempt rather than starting a second one.
		ch := e.loading
		e.mu.Unlock()

		select {
		case <-ch:
			e.mu.Lock()
			err := e.loadErr
			e.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// StateUnloaded: this caller performs the load.
	e.state = StateLoading
	ch := make(chan struct{})
	e.loading = ch
	cfg := e.config
	e.mu.Unlock()

	predictor, labels, err := loadAssets(cfg)

	e.mu.Lock()
	if err != nil {
		e.state = StateUnavailable
		e.loadErr = ErrModelUnavailable
	} else {
		e.state = StateReady
		e.predictor = predictor
		e.labels = labels
		e.loadErr = nil
	}
	loadErr := e.loadErr
	close(ch)
	e.mu.Unlock()

	return loadErr
}

// Reload resets the engine to unloaded so the next Load attempts the assets
// again. This is the explicit external retry path; nothing triggers it
// automatically.
func (e *Engine) Reload() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateLoading {
		return // let the in-flight attempt settle first
	}
	e.state = StateUnloaded
	e.predictor = nil
	e.labels = nil
	e.loadErr = nil
}

// loadAssets reads the model definition and label table from disk.
func loadAssets(cfg Config) (Predictor, []string, error) {
	model, err := LoadModel(cfg.ModelPath)
	if err != nil {
		return nil, nil, err
	}

	// The label table is optional: a missing or unreadable metadata file
	// degrades to synthesized positional labels.
	labels, err := LoadLabels(cfg.MetadataPath)
	if err != nil {
		labels = nil
	}

	return model, labels, nil
}

// =============================================================================
// CLASSIFY
// =============================================================================

// Classify runs one forward pass over the submitted image and returns the
// argmax label with its confidence.
//
// If the model is unloaded this triggers the one-time lazy load first. If
// the model is (or becomes) unavailable the call fails with
// ErrModelUnavailable; empty or corrupt image data fails with ErrDecode.
func (e *Engine) Classify(ctx context.Context, imageData []byte, imageRef string) (Result, error) {
	if err := e.Load(ctx); err != nil {
		return Result{}, err
	}

	e.mu.Lock()
	predictor := e.predictor
	labels := e.labels
	e.mu.Unlock()

	input, err := DecodeImage(imageData, predictor.InputEdge())
	if err != nil {
		return Result{}, err
	}

	// Honor cancellation between the decode and the forward pass; the pass
	// itself is pure CPU work and runs to completion once started.
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	preds, err := predictor.Predict(input)
	if err != nil || len(preds) == 0 {
		return Result{}, ErrModelUnavailable
	}

	topIdx := argmax(preds)
	return Result{
		Label:      LabelFor(labels, topIdx, len(preds)),
		Confidence: preds[topIdx],
		ImageRef:   imageRef,
	}, nil
}

// LabelFor maps a prediction index to a human label. A table shorter than
// the model's output width cannot be trusted positionally, so in that case
// a positional label is synthesized rather than failing or mislabeling.
func LabelFor(labels []string, idx, width int) string {
	if len(labels) >= width && idx >= 0 && idx < len(labels) && labels[idx] != "" {
		return labels[idx]
	}
	return "class_" + strconv.Itoa(idx)
}

// argmax returns the index of the largest prediction. Ties resolve to the
// earliest index.
func argmax(preds []float64) int {
	top := 0
	for i, p := range preds {
		if p > preds[top] {
			top = i
		}
	}
	return top
}

// =============================================================================
// ASSET PRESENCE
// =============================================================================

// AssetsPresent reports whether the model definition file exists. Used at
// startup for a cheap capability hint without triggering a load.
func (e *Engine) AssetsPresent() bool {
	if e.config.ModelPath == "" {
		return false
	}
	_, err := os.Stat(e.config.ModelPath)
	return err == nil
}
