// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeline contains the append-only conversation log and its entries.
package timeline

import (
	"sync"
	"testing"
)

// =============================================================================
// APPEND TESTS
// =============================================================================

func TestStore_AppendAssignsSequentialIDs(t *testing.T) {
	store := NewStore()

	first := store.Append(UserText("hello"))
	second := store.Append(AssistantText("hi there"))

	if first.ID != 1 {
		t.Errorf("first entry ID = %d, want 1", first.ID)
	}
	if second.ID != 2 {
		t.Errorf("second entry ID = %d, want 2", second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Error("Append() should assign a timestamp")
	}
}

func TestStore_AppendPreservesPayload(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		check func(t *testing.T, e Entry)
	}{
		{
			name:  "user text",
			draft: UserText("hello"),
			check: func(t *testing.T, e Entry) {
				if e.Origin != OriginUser || e.Kind != KindText || e.Text != "hello" {
					t.Errorf("unexpected entry %+v", e)
				}
			},
		},
		{
			name:  "user image",
			draft: UserImage("upload-1.png"),
			check: func(t *testing.T, e Entry) {
				if e.Kind != KindImage || e.ImageRef != "upload-1.png" {
					t.Errorf("unexpected entry %+v", e)
				}
			},
		},
		{
			name:  "classification result",
			draft: ClassificationResult(Classification{Label: "class_1", Confidence: 0.7, ImageRef: "upload-1.png"}),
			check: func(t *testing.T, e Entry) {
				if e.Kind != KindClassification {
					t.Errorf("Kind = %q, want %q", e.Kind, KindClassification)
				}
				if e.Result.Label != "class_1" || e.Result.Confidence != 0.7 {
					t.Errorf("unexpected result %+v", e.Result)
				}
			},
		},
		{
			name:  "system notice",
			draft: Notice("model unavailable"),
			check: func(t *testing.T, e Entry) {
				if e.Origin != OriginAssistant || e.Kind != KindNotice {
					t.Errorf("unexpected entry %+v", e)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := NewStore()
			tc.check(t, store.Append(tc.draft))
		})
	}
}

// =============================================================================
// ORDERING TESTS
// =============================================================================

func TestStore_SnapshotStrictlyOrdered(t *testing.T) {
	store := NewStore()
	for i := 0; i < 25; i++ {
		store.Append(UserText("msg"))
	}

	snap := store.Snapshot()
	if len(snap) != 25 {
		t.Fatalf("Snapshot() length = %d, want 25", len(snap))
	}
	for i, e := range snap {
		if e.ID != int64(i+1) {
			t.Errorf("entry %d has ID %d, want %d (no gaps, no reordering)", i, e.ID, i+1)
		}
	}
}

func TestStore_ConcurrentAppendsNeverCollide(t *testing.T) {
	store := NewStore()

	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				store.Append(AssistantText("reply"))
			}
		}()
	}
	wg.Wait()

	snap := store.Snapshot()
	if len(snap) != goroutines*perGoroutine {
		t.Fatalf("Snapshot() length = %d, want %d", len(snap), goroutines*perGoroutine)
	}

	seen := make(map[int64]bool, len(snap))
	var prev int64
	for _, e := range snap {
		if seen[e.ID] {
			t.Fatalf("duplicate ID %d", e.ID)
		}
		seen[e.ID] = true
		if e.ID <= prev {
			t.Fatalf("IDs not strictly increasing: %d after %d", e.ID, prev)
		}
		prev = e.ID
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore()
	store.Append(UserText("original"))

	snap := store.Snapshot()
	snap[0].Text = "mutated"

	again := store.Snapshot()
	if again[0].Text != "original" {
		t.Error("mutating a snapshot must not affect the store")
	}
}

// =============================================================================
// SUBSCRIPTION TESTS
// =============================================================================

func TestStore_SubscriberReceivesTail(t *testing.T) {
	store := NewStore()

	var got []Entry
	store.Subscribe(func(e Entry) {
		got = append(got, e)
	})

	store.Append(UserText("one"))
	store.Append(AssistantText("two"))

	if len(got) != 2 {
		t.Fatalf("subscriber saw %d entries, want 2", len(got))
	}
	if got[0].Text != "one" || got[1].Text != "two" {
		t.Errorf("subscriber received entries out of order: %+v", got)
	}
}

func TestStore_SubscriberMayReadBack(t *testing.T) {
	store := NewStore()

	var lenAtNotify int
	store.Subscribe(func(e Entry) {
		// Re-entrant read must not deadlock.
		lenAtNotify = store.Len()
	})

	store.Append(UserText("hello"))
	if lenAtNotify != 1 {
		t.Errorf("Len() inside subscriber = %d, want 1", lenAtNotify)
	}
}

// =============================================================================
// ENTRY TESTS
// =============================================================================

func TestEntry_Preview(t *testing.T) {
	e := Entry{Kind: KindText, Text: "a rather long message body"}
	if got := e.Preview(10); got != "a rathe..." {
		t.Errorf("Preview(10) = %q", got)
	}
}

func TestEntry_DisplayContent(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"text", Entry{Kind: KindText, Text: "hi"}, "hi"},
		{"notice", Entry{Kind: KindNotice, Text: "degraded"}, "degraded"},
		{"image", Entry{Kind: KindImage, ImageRef: "x.png"}, "[image] x.png"},
		{"classification", Entry{Kind: KindClassification, Result: Classification{Label: "rash"}}, "rash"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.DisplayContent(); got != tc.want {
				t.Errorf("DisplayContent() = %q, want %q", got, tc.want)
			}
		})
	}
}
