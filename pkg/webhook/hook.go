// Package webhook notifies the static site builder that content changed.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
)

const defaultTimeout = 10 * time.Second

// Payload is the body posted to the build hook.
type Payload struct {
	Trigger string `json:"trigger"`
}

// Hook posts to a build hook URL. A zero URL disables it.
type Hook struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a hook for url. timeout <= 0 uses 10s.
func New(url string, timeout time.Duration) *Hook {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Hook{
		url:        url,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a URL is configured.
func (h *Hook) Enabled() bool {
	return h != nil && h.url != ""
}

// Trigger fires the hook in the background and returns immediately.
// Failures are logged, never returned.
func (h *Hook) Trigger() {
	if !h.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		if err := h.Send(ctx); err != nil {
			pkglogger.GetLogger().Error().Err(err).Msg("rebuild hook failed")
			return
		}
		pkglogger.GetLogger().Info().Msg("rebuild hook triggered")
	}()
}

// Send posts the payload synchronously.
func (h *Hook) Send(ctx context.Context) error {
	if !h.Enabled() {
		return nil
	}

	body, err := json.Marshal(Payload{Trigger: "cms"})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build hook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post build hook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("build hook returned %d", resp.StatusCode)
	}
	return nil
}
