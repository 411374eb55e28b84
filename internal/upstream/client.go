// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Package upstream implements the engine's provider interfaces as thin
// HTTP JSON clients against the schedule and analytics collaborators.
// The clients do not retry and do not rate-limit; resilience is the
// collaborators' concern, and the engine surfaces their failures as
// upstream errors.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/BenGiese22/should-i-race-this/internal/metrics"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// Options configures a collaborator client.
type Options struct {
	// BaseURL is the collaborator's root URL, without a trailing slash.
	BaseURL string

	// APIKey authenticates requests via the X-API-Key header. Empty
	// means unauthenticated.
	APIKey string

	// Timeout bounds each request. Zero means 15 seconds.
	Timeout time.Duration
}

// client is the shared HTTP layer under both collaborator clients.
type client struct {
	baseURL   string
	apiKey    string
	component string
	http      *http.Client
	logger    zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newClient(opts Options, component string, logger zerolog.Logger) *client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &client{
		baseURL:   opts.BaseURL,
		apiKey:    opts.APIKey,
		component: component,
		http:      &http.Client{Timeout: timeout},
		logger:    logger.With().Str("component", component).Logger(),
	}
}

// getJSON performs a GET and decodes the body into out.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request for %s: %w", path, err)
	}
	return c.do(req, path, out)
}

// postJSON performs a POST with a JSON body and decodes the response into out.
func (c *client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *client) do(req *http.Request, path string, out any) error {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(c.component).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(c.component).Inc()
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("collaborator request")

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrors.WithLabelValues(c.component).Inc()
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s %s: HTTP %d: %s", req.Method, path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
