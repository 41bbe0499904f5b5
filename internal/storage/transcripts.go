// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation transcript persistence.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/senseai-tui/internal/timeline"
	"github.com/jeranaias/senseai-tui/internal/util"
)

// =============================================================================
// STORED TRANSCRIPT TYPE
// =============================================================================

// StoredTranscript is a persisted snapshot of one conversation timeline.
type StoredTranscript struct {
	// Identity
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	Lang      string    `json:"lang,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Entries, in timeline order.
	Entries []timeline.Entry `json:"entries"`
}

// TranscriptMeta contains metadata for listing transcripts.
type TranscriptMeta struct {
	ID         string    `json:"id"`
	Summary    string    `json:"summary"`
	Lang       string    `json:"lang,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	EntryCount int       `json:"entry_count"`
	Preview    string    `json:"preview"` // First user entry truncated
}

// =============================================================================
// TRANSCRIPT STORE
// =============================================================================

// TranscriptStore handles transcript persistence.
type TranscriptStore struct {
	// BaseDir is the directory for storing transcripts
	// Default: ~/.senseai/transcripts/
	BaseDir string

	// MaxTranscripts limits stored transcripts (0 = unlimited)
	MaxTranscripts int
}

// NewTranscriptStore creates a store rooted in the user's home directory.
func NewTranscriptStore() (*TranscriptStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Join(homeDir, ".senseai", "transcripts")
	return NewTranscriptStoreWithDir(baseDir)
}

// NewTranscriptStoreWithDir creates a store with a custom directory.
func NewTranscriptStoreWithDir(baseDir string) (*TranscriptStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &TranscriptStore{
		BaseDir:        baseDir,
		MaxTranscripts: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a transcript and returns its ID.
func (s *TranscriptStore) Save(tr *StoredTranscript) (string, error) {
	if tr.ID == "" {
		tr.ID = generateTranscriptID()
	}

	if tr.Summary == "" {
		tr.Summary = s.generateSummary(tr)
	}

	tr.UpdatedAt = time.Now()
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = tr.UpdatedAt
	}

	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return "", err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	filePath := s.filePath(tr.ID)
	if err := util.AtomicWriteFile(filePath, data, 0644); err != nil {
		return "", err
	}

	if s.MaxTranscripts > 0 {
		s.enforceLimit()
	}

	return tr.ID, nil
}

// generateSummary creates a summary from the first user entry.
func (s *TranscriptStore) generateSummary(tr *StoredTranscript) string {
	for _, entry := range tr.Entries {
		if entry.Origin != timeline.OriginUser {
			continue
		}
		content := entry.DisplayContent()
		if content == "" {
			continue
		}
		content = strings.ReplaceAll(content, "\n", " ")
		content = strings.ReplaceAll(content, "\r", "")
		return util.TruncateRunes(content, 50)
	}
	return "New conversation"
}

// enforceLimit removes oldest transcripts if over limit.
func (s *TranscriptStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxTranscripts {
		return
	}

	// Oldest first.
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxTranscripts
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a transcript by ID.
func (s *TranscriptStore) Load(id string) (*StoredTranscript, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}

	var tr StoredTranscript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, err
	}

	return &tr, nil
}

// LoadByIndex loads a transcript by its index in the list (0 = most recent).
func (s *TranscriptStore) LoadByIndex(index int) (*StoredTranscript, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(metas) {
		return nil, ErrTranscriptNotFound
	}

	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved transcripts (most recent first).
func (s *TranscriptStore) List() ([]TranscriptMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TranscriptMeta{}, nil
		}
		return nil, err
	}

	var metas []TranscriptMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		tr, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}

		preview := ""
		for _, e := range tr.Entries {
			if e.Origin == timeline.OriginUser {
				preview = util.TruncateRunes(e.DisplayContent(), 80)
				break
			}
		}

		metas = append(metas, TranscriptMeta{
			ID:         tr.ID,
			Summary:    tr.Summary,
			Lang:       tr.Lang,
			CreatedAt:  tr.CreatedAt,
			UpdatedAt:  tr.UpdatedAt,
			EntryCount: len(tr.Entries),
			Preview:    preview,
		})
	}

	// Most recent first.
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// Search finds transcripts whose summary or preview matches a query string.
func (s *TranscriptStore) Search(query string) ([]TranscriptMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []TranscriptMeta

	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Summary), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}

	return results, nil
}

// SearchEntries searches transcripts by entry content (case-insensitive).
func (s *TranscriptStore) SearchEntries(query string) ([]TranscriptMeta, error) {
	if query == "" {
		return s.List()
	}

	query = strings.ToLower(query)
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []TranscriptMeta

	for _, meta := range all {
		tr, err := s.Load(meta.ID)
		if err != nil {
			continue
		}

		for _, e := range tr.Entries {
			if strings.Contains(strings.ToLower(e.DisplayContent()), query) {
				results = append(results, meta)
				break
			}
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a transcript by ID.
func (s *TranscriptStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrTranscriptNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved transcripts.
func (s *TranscriptStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// filePath returns the file path for a transcript ID.
func (s *TranscriptStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// generateTranscriptID creates a unique transcript ID.
func generateTranscriptID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "chat_" + hex.EncodeToString(bytes)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrTranscriptNotFound is returned when a transcript doesn't exist.
// Use errors.Is(err, ErrTranscriptNotFound) to check for this error.
var ErrTranscriptNotFound = &TranscriptError{Message: "transcript not found"}

// TranscriptError represents a transcript-related error.
type TranscriptError struct {
	Message string
}

// Error implements the error interface.
func (e *TranscriptError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing transcript errors.
func (e *TranscriptError) Is(target error) bool {
	t, ok := target.(*TranscriptError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// ExportMarkdown exports the transcript as a Markdown formatted string.
func (c *StoredTranscript) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Conversation " + c.ID + "\n\n")
	sb.WriteString("Created: " + c.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, e := range c.Entries {
		sb.WriteString("**" + e.Origin.DisplayName() + "** (" + e.CreatedAt.Format("15:04") + "):\n\n")
		switch e.Kind {
		case timeline.KindClassification:
			sb.WriteString(e.Result.Label + " (" + util.FloatToString(e.Result.Confidence*100) + "%)")
		default:
			sb.WriteString(e.DisplayContent())
		}
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// ExportJSON exports the transcript as a pretty-printed JSON byte array.
func (c *StoredTranscript) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// EntryCount returns the number of entries in the transcript.
func (c *StoredTranscript) EntryCount() int {
	return len(c.Entries)
}
