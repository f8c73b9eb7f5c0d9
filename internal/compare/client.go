// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/diffly-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the comparison client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
	ErrTypeArchive
)

// String returns a short name for logs.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// ErrTimeout is returned when the request deadline passes.
var ErrTimeout = &ClientError{Type: ErrTypeTimeout, Message: "comparison request timed out"}

// =============================================================================
// CONFIGURATION
// =============================================================================

// DefaultURL is the endpoint of a locally running comparison service.
const DefaultURL = "http://127.0.0.1:8000/compare"

// DefaultMaxResponseBytes caps the response body read from the service.
const DefaultMaxResponseBytes int64 = 64 << 20

// ClientConfig holds configuration for the comparison client.
type ClientConfig struct {
	// URL is the full compare endpoint (default: http://127.0.0.1:8000/compare)
	URL string

	// Timeout for the whole request. Zero means no timeout.
	Timeout time.Duration

	// MaxResponseBytes caps the response body (default: 64 MiB)
	MaxResponseBytes int64

	// SkipProbe uploads archives without opening them locally first
	SkipProbe bool
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		URL:              DefaultURL,
		MaxResponseBytes: DefaultMaxResponseBytes,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client uploads archive pairs to the comparison service.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.MaxResponseBytes <= 0 {
		config.MaxResponseBytes = DefaultMaxResponseBytes
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.config.URL
}

// Compare uploads both archives and decodes the service response.
func (c *Client) Compare(ctx context.Context, leftPath, rightPath string) (*model.ComparisonResult, error) {
	if !c.config.SkipProbe {
		for _, p := range []string{leftPath, rightPath} {
			if _, err := ProbeArchive(p); err != nil {
				return nil, err
			}
		}
	}

	body, contentType := multipartBody(leftPath, rightPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, body)
	if err != nil {
		body.Close()
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		var cerr *ClientError
		if errors.As(err, &cerr) {
			return nil, cerr
		}
		return nil, &ClientError{
			Type:    ErrTypeConnection,
			Message: "comparison service not reachable at " + c.config.URL,
			Cause:   err,
		}
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, c.config.MaxResponseBytes+1)

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeStatus,
			Message: statusMessage(resp, limited),
		}
	}

	data, err := io.ReadAll(limited)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}
	if int64(len(data)) > c.config.MaxResponseBytes {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("response exceeds %d bytes", c.config.MaxResponseBytes),
		}
	}

	result, err := model.Decode(data)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result, nil
}

// multipartBody streams both archives as form files zip1 and zip2.
func multipartBody(leftPath, rightPath string) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writePart(mw, "zip1", leftPath)
		if err == nil {
			err = writePart(mw, "zip2", rightPath)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writePart(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ClientError{Type: ErrTypeArchive, Message: "cannot open archive " + path, Cause: err}
	}
	defer f.Close()

	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// statusMessage extracts a readable error from a non-200 response.
func statusMessage(resp *http.Response, body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))

	var payload struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		switch {
		case payload.Error != "":
			return "comparison failed: " + resp.Status + ": " + payload.Error
		case payload.Detail != nil:
			return fmt.Sprintf("comparison failed: %s: %v", resp.Status, payload.Detail)
		}
	}

	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "<") {
		return "comparison failed: " + resp.Status + ": " + text
	}
	return "comparison failed: " + resp.Status
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
