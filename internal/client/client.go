// Package client implements the sibling-service boundary: small HTTP
// clients the profile and song services use to reach each other. Every call
// has a bounded timeout and collapses into one of three outcome classes:
// payload, status.ErrNotFound, or status.ErrUnavailable. A network error, a
// timeout, a non-2xx response, and an undecodable body are all the same
// "unavailable" as far as callers are concerned.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/chorusproject/chorus/internal/metrics"
	"github.com/chorusproject/chorus/internal/status"
)

// envelope mirrors the JSON response body both services emit.
type envelope struct {
	Path    string          `json:"path,omitempty"`
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// call issues the request and decodes the envelope. The returned kind is
// already validated by status.ParseKind, so an unknown status string reads
// as Unavailable.
func call(ctx context.Context, httpClient *http.Client, logger *log.Logger, target, method, url string) (status.Kind, *envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return status.Unavailable, nil, fmt.Errorf("build request: %w", status.ErrUnavailable)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.SiblingRequestsTotal.WithLabelValues(target, "unavailable").Inc()
		logger.Warn("sibling call failed", "target", target, "url", url, "err", err)
		return status.Unavailable, nil, fmt.Errorf("%s %s: %w", method, url, status.ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.SiblingRequestsTotal.WithLabelValues(target, "unavailable").Inc()
		return status.Unavailable, nil, fmt.Errorf("read response: %w", status.ErrUnavailable)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		metrics.SiblingRequestsTotal.WithLabelValues(target, "unavailable").Inc()
		logger.Warn("sibling returned undecodable body", "target", target, "url", url, "code", resp.StatusCode)
		return status.Unavailable, nil, fmt.Errorf("decode response: %w", status.ErrUnavailable)
	}

	kind := status.ParseKind(env.Status)
	switch kind {
	case status.NotFound:
		metrics.SiblingRequestsTotal.WithLabelValues(target, "not_found").Inc()
	case status.Unavailable:
		metrics.SiblingRequestsTotal.WithLabelValues(target, "unavailable").Inc()
	default:
		metrics.SiblingRequestsTotal.WithLabelValues(target, "ok").Inc()
	}
	return kind, &env, nil
}
