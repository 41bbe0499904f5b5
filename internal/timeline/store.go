// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeline contains the append-only conversation log and its entries.
package timeline

import (
	"sync"
	"time"
)

// =============================================================================
// STORE
// =============================================================================

// Store is the append-only conversation log and the single source of truth
// for rendering. Appends are atomic: concurrent completions from independent
// actions serialize here, and each new entry is placed after whatever is
// currently last. No operation edits or removes an appended entry.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64
	subs    []func(Entry)
}

// NewStore creates an empty timeline store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// =============================================================================
// APPEND / READ
// =============================================================================

// Append assigns the next sequence ID and timestamp to the draft, stores the
// resulting entry, and returns the stored immutable copy. Append never fails:
// the log is a pure in-memory structure.
//
// Subscribers are notified with the new tail entry after the append commits.
func (s *Store) Append(d Draft) Entry {
	s.mu.Lock()
	entry := Entry{
		ID:        s.nextID,
		CreatedAt: time.Now(),
		Origin:    d.Origin,
		Kind:      d.Kind,
		Text:      d.Text,
		ImageRef:  d.ImageRef,
		Result:    d.Result,
	}
	s.nextID++
	s.entries = append(s.entries, entry)

	// Snapshot the subscriber list so notification runs outside the lock;
	// a subscriber is free to call back into Snapshot.
	subs := make([]func(Entry), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(entry)
	}

	return entry
}

// Snapshot returns an ordered read-only view of the timeline. The returned
// slice is a copy; mutating it does not affect the store.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of appended entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Last returns the most recent entry, or false if the timeline is empty.
func (s *Store) Last() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers a function called with each newly appended tail entry.
// This is a single-item change notification, not a diff: the presentation
// layer renders the new entry or re-snapshots as it sees fit.
func (s *Store) Subscribe(fn func(Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
