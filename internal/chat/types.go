// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the HTTP client for the remote assistant endpoint.
package chat

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// Request is the request body for the /chat endpoint.
type Request struct {
	Message string `json:"message"` // User text, non-empty after trimming
	Lang    string `json:"lang"`    // Opaque language tag, passed through
}

// Reply is the response body from the /chat endpoint.
// The service may include extra fields (e.g. the reply source); only the
// reply text matters to this client.
type Reply struct {
	Reply  string `json:"reply"`
	Source string `json:"source,omitempty"`
}
