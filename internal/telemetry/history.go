// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// REPORT HISTORY
// =============================================================================

// historySchema is the report log table.
const historySchema = `
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at INTEGER NOT NULL,
	request_id TEXT NOT NULL DEFAULT '',
	label TEXT NOT NULL,
	confidence REAL NOT NULL,
	delivered INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// HistoryEntry is one recorded report.
type HistoryEntry struct {
	ID         int64
	CreatedAt  time.Time
	RequestID  string
	Label      string
	Confidence float64
	Delivered  bool
}

// History is a local SQLite log of classification reports.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the report history database.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &History{db: db}, nil
}

// Record appends one report to the log.
func (h *History) Record(report Report, delivered bool) error {
	_, err := h.db.Exec(
		"INSERT INTO reports (created_at, request_id, label, confidence, delivered) VALUES (?, ?, ?, ?, ?)",
		time.Now().Unix(), report.RequestID, report.Label, report.Confidence, delivered,
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (h *History) Recent(limit int) ([]HistoryEntry, error) {
	rows, err := h.db.Query(
		"SELECT id, created_at, request_id, label, confidence, delivered FROM reports ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var createdAt int64
		if err := rows.Scan(&e.ID, &createdAt, &e.RequestID, &e.Label, &e.Confidence, &e.Delivered); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded reports.
func (h *History) Count() (int, error) {
	var count int
	err := h.db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&count)
	return count, err
}

// DeleteBefore removes entries older than the given time.
func (h *History) DeleteBefore(before time.Time) error {
	_, err := h.db.Exec("DELETE FROM reports WHERE created_at < ?", before.Unix())
	return err
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}
