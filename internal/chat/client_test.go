// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the HTTP client for the remote assistant endpoint.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SEND TESTS
// =============================================================================

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Message)
		assert.Equal(t, "en", req.Lang)

		json.NewEncoder(w).Encode(Reply{Reply: "Hi there!", Source: "rule"})
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	reply, err := client.Send(context.Background(), "hello", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply)
}

func TestClient_SendReturnsReplyVerbatim(t *testing.T) {
	// Inline markup passes through untouched: rendering is not this layer's job.
	const markup = "🩺 <strong>rash</strong> (70.0%)<br><small>Not a diagnosis.</small>"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Reply{Reply: markup})
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	reply, err := client.Send(context.Background(), "check this", "en")
	require.NoError(t, err)
	assert.Equal(t, markup, reply)
}

// =============================================================================
// FAILURE MAPPING TESTS
// =============================================================================

func TestClient_SendFailuresCollapseToUnreachable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not found status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json at all"))
			},
		},
		{
			name: "missing reply field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"ok"}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

			_, err := client.Send(context.Background(), "hello", "en")
			require.Error(t, err)
			assert.True(t, IsUnreachable(err), "error %v should map to unreachable", err)
		})
	}
}

func TestClient_SendConnectionRefused(t *testing.T) {
	// Server started then stopped: the port refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: 2 * time.Second})

	_, err := client.Send(context.Background(), "hello", "en")
	require.Error(t, err)
	assert.True(t, IsUnreachable(err))
}

func TestClient_SendTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Send(ctx, "hello", "en")
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "error %v should be a timeout", err)
	assert.True(t, IsUnreachable(err), "timeout also collapses to unreachable")
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestClient_CheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	assert.NoError(t, client.CheckHealth(context.Background()))
}

func TestClient_CheckHealthBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	err := client.CheckHealth(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnreachable(err))
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(nil)
	cfg := client.GetConfig()

	assert.NotEmpty(t, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	partial := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test"})
	assert.Equal(t, "http://example.test", partial.GetConfig().BaseURL)
	assert.Equal(t, 30*time.Second, partial.GetConfig().Timeout)
}
