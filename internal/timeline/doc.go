// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeline contains the append-only conversation log and its entries.
//
// The Store owns the entry sequence exclusively: callers append drafts and
// receive back immutable entries with assigned IDs and timestamps. There is
// no edit or delete operation, by contract. The orchestrator appends, the
// presentation layer reads snapshots and subscribes to tail notifications.
//
// # Usage
//
//	store := timeline.NewStore()
//	store.Subscribe(func(e timeline.Entry) { render(e) })
//
//	entry := store.Append(timeline.UserText("hello"))
//	history := store.Snapshot()
package timeline
