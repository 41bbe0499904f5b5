// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package indicator tracks the ephemeral busy states shown while an
// asynchronous action is in flight.
package indicator

import "sync"

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind identifies which asynchronous action an indicator represents.
type Kind string

const (
	KindSending     Kind = "sending"
	KindClassifying Kind = "classifying"
	KindLocating    Kind = "locating"
)

// Message returns the label the presentation layer shows for this kind.
func (k Kind) Message() string {
	switch k {
	case KindSending:
		return "Thinking"
	case KindClassifying:
		return "Classifying"
	case KindLocating:
		return "Locating"
	default:
		return "Working"
	}
}

// =============================================================================
// CONFLICT ERROR
// =============================================================================

// ConflictError reports an attempt to start an indicator while another is
// active. The per-action serialization in the orchestrator makes this a
// programming defect, not a user-facing condition.
type ConflictError struct {
	Active    Kind
	Requested Kind
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return "indicator conflict: " + string(e.Requested) + " requested while " + string(e.Active) + " is active"
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager enforces the core indicator invariant: at most one busy kind is
// visible at any instant, and every started indicator is eventually cleared.
//
// Begin hands back a Guard whose Release is idempotent; callers defer the
// release so it runs on every exit path. A stuck indicator is a worse
// user-visible failure than a missing one.
type Manager struct {
	mu       sync.Mutex
	active   Kind // zero value means idle
	gen      uint64
	onChange func(Kind)
}

// NewManager creates an idle indicator manager.
func NewManager() *Manager {
	return &Manager{}
}

// OnChange registers a callback invoked with the new state after every
// transition ("" for idle). At most one callback; later calls replace it.
func (m *Manager) OnChange(fn func(Kind)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Begin activates the given busy kind and returns its release guard.
// Fails with *ConflictError if another kind is already active.
func (m *Manager) Begin(kind Kind) (*Guard, error) {
	m.mu.Lock()
	if m.active != "" {
		err := &ConflictError{Active: m.active, Requested: kind}
		m.mu.Unlock()
		return nil, err
	}

	m.active = kind
	m.gen++
	guard := &Guard{manager: m, gen: m.gen}
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(kind)
	}
	return guard, nil
}

// Current returns the active busy kind, or false when idle.
func (m *Manager) Current() (Kind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != ""
}

// IsIdle returns true when no indicator is active.
func (m *Manager) IsIdle() bool {
	_, busy := m.Current()
	return !busy
}

// release clears the active state if the guard generation still matches.
// The generation check makes a stale guard's release a no-op, so a late
// double release can never clear a newer indicator.
func (m *Manager) release(gen uint64) {
	m.mu.Lock()
	if m.gen != gen || m.active == "" {
		m.mu.Unlock()
		return
	}
	m.active = ""
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn("")
	}
}

// =============================================================================
// GUARD
// =============================================================================

// Guard represents one active indicator. Release returns the manager to
// idle; it is safe to call any number of times.
type Guard struct {
	manager *Manager
	gen     uint64
	once    sync.Once
}

// Release clears the indicator. Idempotent.
func (g *Guard) Release() {
	g.once.Do(func() {
		g.manager.release(g.gen)
	})
}
