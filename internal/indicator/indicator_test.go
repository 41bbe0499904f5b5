// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package indicator tracks the ephemeral busy states shown while an
// asynchronous action is in flight.
package indicator

import (
	"errors"
	"testing"
)

func TestManager_BeginRelease(t *testing.T) {
	m := NewManager()

	if !m.IsIdle() {
		t.Fatal("new manager should be idle")
	}

	guard, err := m.Begin(KindSending)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	kind, busy := m.Current()
	if !busy || kind != KindSending {
		t.Errorf("Current() = (%q, %v), want (sending, true)", kind, busy)
	}

	guard.Release()
	if !m.IsIdle() {
		t.Error("manager should be idle after Release()")
	}
}

func TestManager_BeginConflicts(t *testing.T) {
	m := NewManager()

	guard, err := m.Begin(KindSending)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer guard.Release()

	_, err = m.Begin(KindClassifying)
	if err == nil {
		t.Fatal("second Begin() should fail while first is active")
	}

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error type = %T, want *ConflictError", err)
	}
	if conflict.Active != KindSending || conflict.Requested != KindClassifying {
		t.Errorf("ConflictError = %+v", conflict)
	}
}

func TestGuard_ReleaseIsIdempotent(t *testing.T) {
	m := NewManager()

	guard, _ := m.Begin(KindLocating)
	guard.Release()
	guard.Release()
	guard.Release()

	if !m.IsIdle() {
		t.Error("manager should be idle")
	}

	// A fresh indicator must not be clobbered by the old guard.
	next, err := m.Begin(KindSending)
	if err != nil {
		t.Fatalf("Begin() after release error = %v", err)
	}
	guard.Release()

	kind, busy := m.Current()
	if !busy || kind != KindSending {
		t.Errorf("stale guard release cleared a newer indicator: Current() = (%q, %v)", kind, busy)
	}
	next.Release()
}

func TestManager_SequentialActions(t *testing.T) {
	m := NewManager()

	kinds := []Kind{KindSending, KindClassifying, KindLocating, KindSending}
	for _, k := range kinds {
		guard, err := m.Begin(k)
		if err != nil {
			t.Fatalf("Begin(%q) error = %v", k, err)
		}
		guard.Release()
	}

	if !m.IsIdle() {
		t.Error("manager should be idle after paired begin/release cycles")
	}
}

func TestManager_OnChange(t *testing.T) {
	m := NewManager()

	var transitions []Kind
	m.OnChange(func(k Kind) {
		transitions = append(transitions, k)
	})

	guard, _ := m.Begin(KindClassifying)
	guard.Release()
	guard.Release() // idempotent: no duplicate idle notification

	if len(transitions) != 2 {
		t.Fatalf("saw %d transitions, want 2: %v", len(transitions), transitions)
	}
	if transitions[0] != KindClassifying || transitions[1] != "" {
		t.Errorf("transitions = %v, want [classifying, idle]", transitions)
	}
}

func TestKind_Message(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSending, "Thinking"},
		{KindClassifying, "Classifying"},
		{KindLocating, "Locating"},
		{Kind("other"), "Working"},
	}

	for _, tc := range tests {
		if got := tc.kind.Message(); got != tc.want {
			t.Errorf("Kind(%q).Message() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
