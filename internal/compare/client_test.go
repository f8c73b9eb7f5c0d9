// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compare

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/diffly-tui/internal/model"
)

// writeZip creates a zip archive with the given files in dir.
func writeZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for n, content := range files {
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func archivePair(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	left := writeZip(t, dir, "v1.zip", map[string]string{"a.txt": "one\n", "b.txt": "two\n"})
	right := writeZip(t, dir, "v2.zip", map[string]string{"a.txt": "uno\n"})
	return left, right
}

const okResponse = `{
	"diff": {"added": [], "removed": ["b.txt"], "modified": [{"file": "a.txt", "old_content": "one\n", "new_content": "uno\n", "lines_changed": 1}]},
	"contents1": {"b.txt": "two\n"},
	"contents2": {},
	"summary": "One file changed, one removed."
}`

// =============================================================================
// COMPARE TESTS
// =============================================================================

func TestClient_Compare_Success(t *testing.T) {
	left, right := archivePair(t)
	leftBytes, _ := os.ReadFile(left)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f1, h1, err := r.FormFile("zip1")
		require.NoError(t, err)
		defer f1.Close()
		assert.Equal(t, "v1.zip", h1.Filename)
		got, _ := io.ReadAll(f1)
		assert.Equal(t, leftBytes, got)

		f2, h2, err := r.FormFile("zip2")
		require.NoError(t, err)
		defer f2.Close()
		assert.Equal(t, "v2.zip", h2.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{URL: server.URL + "/compare"})
	result, err := client.Compare(context.Background(), left, right)
	require.NoError(t, err)

	entries := model.Normalize(result)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Path)
	assert.Equal(t, model.StatusModified, entries[0].Status)
	assert.Equal(t, "two\n", entries[1].OldContent)
	assert.Equal(t, "One file changed, one removed.", result.Summary)
}

func TestClient_Compare_StatusError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"detail payload", http.StatusInternalServerError, `{"detail": "boom"}`, "boom"},
		{"error payload", http.StatusBadRequest, `{"error": "bad zip"}`, "bad zip"},
		{"plain text", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty body", http.StatusServiceUnavailable, "", "503"},
	}

	left, right := archivePair(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.Copy(io.Discard, r.Body)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClientWithConfig(&ClientConfig{URL: server.URL})
			_, err := client.Compare(context.Background(), left, right)

			var cerr *ClientError
			require.True(t, errors.As(err, &cerr), "expected ClientError, got %v", err)
			assert.Equal(t, ErrTypeStatus, cerr.Type)
			assert.Contains(t, cerr.Error(), tt.contains)
		})
	}
}

func TestClient_Compare_MalformedResponse(t *testing.T) {
	left, right := archivePair(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"summary": "no diff here"}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{URL: server.URL})
	result, err := client.Compare(context.Background(), left, right)

	assert.Nil(t, result)
	var cerr *ClientError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, ErrTypeInvalidResponse, cerr.Type)
	assert.True(t, errors.Is(err, model.ErrMalformedResult))
}

func TestClient_Compare_ResponseTooLarge(t *testing.T) {
	left, right := archivePair(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(okResponse))
	}))
	defer server.Close()

	client := NewClientWithConfig(&ClientConfig{URL: server.URL, MaxResponseBytes: 16})
	_, err := client.Compare(context.Background(), left, right)

	var cerr *ClientError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, ErrTypeInvalidResponse, cerr.Type)
	assert.Contains(t, cerr.Message, "exceeds")
}

func TestClient_Compare_ConnectionRefused(t *testing.T) {
	left, right := archivePair(t)

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClientWithConfig(&ClientConfig{URL: url})
	_, err := client.Compare(context.Background(), left, right)

	var cerr *ClientError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, ErrTypeConnection, cerr.Type)
}

func TestClient_Compare_Timeout(t *testing.T) {
	left, right := archivePair(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClientWithConfig(&ClientConfig{URL: server.URL})
	_, err := client.Compare(ctx, left, right)

	assert.Equal(t, ErrTimeout, err)
}

func TestClient_Compare_ProbeFailsWithoutRequest(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	dir := t.TempDir()
	good := writeZip(t, dir, "ok.zip", map[string]string{"x": "y"})
	bad := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0644))

	client := NewClientWithConfig(&ClientConfig{URL: server.URL})
	_, err := client.Compare(context.Background(), good, bad)

	var cerr *ClientError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, ErrTypeArchive, cerr.Type)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})
	assert.Equal(t, DefaultURL, client.URL())
	assert.Equal(t, DefaultMaxResponseBytes, client.config.MaxResponseBytes)
	assert.Equal(t, time.Duration(0), client.httpClient.Timeout)

	assert.Equal(t, DefaultURL, NewClientWithConfig(nil).URL())
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "connection", ErrTypeConnection.String())
	assert.Equal(t, "archive", ErrTypeArchive.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}

// =============================================================================
// ARCHIVE PROBE TESTS
// =============================================================================

func TestProbeArchive(t *testing.T) {
	dir := t.TempDir()
	path := writeZip(t, dir, "a.zip", map[string]string{
		"src/":        "",
		"src/main.go": "package main\n",
		"README":      "hello",
	})

	info, err := ProbeArchive(path)
	require.NoError(t, err)

	assert.Equal(t, 3, info.Entries)
	assert.Equal(t, 2, info.Files)
	assert.Equal(t, uint64(len("package main\n")+len("hello")), info.UncompressedSize)
	assert.Greater(t, info.FileSize, int64(0))
	assert.Contains(t, info.String(), "2 files")
}

func TestProbeArchive_Errors(t *testing.T) {
	dir := t.TempDir()
	notZip := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(notZip, []byte("hello"), 0644))

	for _, p := range []string{filepath.Join(dir, "missing.zip"), dir, notZip} {
		_, err := ProbeArchive(p)
		var cerr *ClientError
		require.True(t, errors.As(err, &cerr), p)
		assert.Equal(t, ErrTypeArchive, cerr.Type, p)
	}
}
