// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller orchestrates one comparison session.
//
// A comparison moves through Idle, Comparing and then Ready or Failed. The
// remote call is split from the state changes: Begin validates and records
// the request, Run performs the call without touching controller state, and
// Apply commits the outcome. This lets the UI run the call in a tea.Cmd and
// apply the result on its own event loop.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/diffly-tui/internal/model"
	"github.com/jeranaias/diffly-tui/internal/viewstate"
)

// =============================================================================
// ERRORS AND STATES
// =============================================================================

var (
	// ErrMissingInput is returned when either archive path is empty.
	ErrMissingInput = errors.New("please select both archives to compare")

	// ErrComparisonInProgress is returned when a comparison is already running.
	ErrComparisonInProgress = errors.New("a comparison is already in progress")

	// ErrStaleOutcome is returned by Apply for an outcome of a superseded session.
	ErrStaleOutcome = errors.New("outcome belongs to a superseded comparison")

	// ErrEmptyResult is returned when the comparer reports success without a result.
	ErrEmptyResult = errors.New("comparison returned no result")
)

// State is the lifecycle state of the controller.
type State int

const (
	StateIdle State = iota
	StateComparing
	StateReady
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComparing:
		return "comparing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Comparer performs the remote comparison of two archives.
type Comparer interface {
	Compare(ctx context.Context, leftPath, rightPath string) (*model.ComparisonResult, error)
}

// Request identifies one comparison attempt.
type Request struct {
	Session string
	Left    string
	Right   string
	Started time.Time
}

// Outcome is the result of running a Request.
type Outcome struct {
	Request Request
	Result  *model.ComparisonResult
	Err     error
	Elapsed time.Duration
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the current result and the collapse state of its files.
type Controller struct {
	mu sync.Mutex

	comparer Comparer
	view     *viewstate.Store
	logger   zerolog.Logger

	state   State
	result  *model.ComparisonResult
	current Request
	last    Request
	lastErr error
}

// New creates a controller. A nil view store gets a fresh one.
func New(comparer Comparer, view *viewstate.Store, logger zerolog.Logger) *Controller {
	if view == nil {
		view = viewstate.New()
	}
	return &Controller{
		comparer: comparer,
		view:     view,
		logger:   logger,
		state:    StateIdle,
	}
}

// Begin validates the inputs and starts a new session.
// The displayed result is cleared; view state is left alone until a
// result arrives.
func (c *Controller) Begin(left, right string) (Request, error) {
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)

	c.mu.Lock()
	defer c.mu.Unlock()

	if left == "" || right == "" {
		return Request{}, ErrMissingInput
	}
	if c.state == StateComparing {
		return Request{}, ErrComparisonInProgress
	}

	req := Request{
		Session: uuid.NewString(),
		Left:    left,
		Right:   right,
		Started: time.Now(),
	}
	c.current = req
	c.last = req
	c.result = nil
	c.lastErr = nil
	c.state = StateComparing

	c.logger.Info().
		Str("session", req.Session).
		Str("left", left).
		Str("right", right).
		Msg("COMPARE_START")

	return req, nil
}

// Run performs the remote call for a request. It does not touch controller
// state and is safe to call from another goroutine.
func (c *Controller) Run(ctx context.Context, req Request) Outcome {
	result, err := c.comparer.Compare(ctx, req.Left, req.Right)
	if err == nil && result == nil {
		err = ErrEmptyResult
	}
	return Outcome{
		Request: req,
		Result:  result,
		Err:     err,
		Elapsed: time.Since(req.Started),
	}
}

// Apply commits an outcome. On success the result is stored and the view
// state is reset to the new paths. On failure nothing is stored, the view
// state is kept and the comparison error is returned.
func (c *Controller) Apply(out Outcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateComparing || out.Request.Session != c.current.Session {
		c.logger.Warn().
			Str("session", out.Request.Session).
			Str("current", c.current.Session).
			Msg("COMPARE_STALE")
		return ErrStaleOutcome
	}

	if out.Err != nil {
		c.state = StateFailed
		c.lastErr = out.Err
		c.logger.Error().
			Err(out.Err).
			Str("session", out.Request.Session).
			Dur("elapsed", out.Elapsed).
			Msg("COMPARE_FAILED")
		return out.Err
	}

	c.result = out.Result
	entries := model.Normalize(c.result)
	c.view.Reset()
	c.view.Track(model.Paths(entries))
	c.state = StateReady

	counts := model.CountEntries(entries)
	c.logger.Info().
		Str("session", out.Request.Session).
		Int("files", counts.Total()).
		Int("added", counts.Added).
		Int("removed", counts.Removed).
		Int("modified", counts.Modified).
		Dur("elapsed", out.Elapsed).
		Msg("COMPARE_COMPLETE")

	return nil
}

// Compare runs Begin, Run and Apply synchronously.
func (c *Controller) Compare(ctx context.Context, left, right string) error {
	req, err := c.Begin(left, right)
	if err != nil {
		return err
	}
	return c.Apply(c.Run(ctx, req))
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a comparison is running.
func (c *Controller) Busy() bool {
	return c.State() == StateComparing
}

// Result returns the stored result, or nil.
func (c *Controller) Result() *model.ComparisonResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Files normalizes the stored result. Nothing is cached.
func (c *Controller) Files() []model.FileEntry {
	return model.Normalize(c.Result())
}

// Err returns the error of the last failed comparison.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// LastRequest returns the most recent request, if any.
func (c *Controller) LastRequest() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.last.Session != ""
}

// View returns the collapse state store.
func (c *Controller) View() *viewstate.Store {
	return c.view
}
