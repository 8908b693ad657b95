package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/target/seyren-notify/internal/errors"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultUserAgent = "seyren-notify"
	// maxErrorBody bounds how much of a failed response is kept for logs.
	maxErrorBody = 4 << 10
)

// TransportConfig configures the HTTP delivery transport.
type TransportConfig struct {
	Timeout   time.Duration
	UserAgent string
	// Client overrides the per-call client. Tests point it at httptest servers.
	Client *http.Client
	Logger *slog.Logger
}

// Transport posts serialized notifications. It performs exactly one attempt per
// call; non-2xx responses and network errors both surface as DeliveryFailed.
// Transport is safe for concurrent use.
type Transport struct {
	timeout   time.Duration
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

// NewTransport builds a transport, filling in defaults.
func NewTransport(cfg TransportConfig) *Transport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		timeout:   timeout,
		userAgent: ua,
		client:    cfg.Client,
		logger:    logger,
	}
}

// PostJSON sends body to endpoint and returns the response status. The response
// body is drained and closed on every path, and a per-call client releases its
// idle connections before returning.
func (t *Transport) PostJSON(ctx context.Context, endpoint string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, apperrors.WrapField(err, apperrors.ErrCodeConfiguration, "target", "create notification request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	hc, release := t.acquire()
	defer release()

	resp, err := hc.Do(req)
	if err != nil {
		return 0, apperrors.DeliveryFailed(0, "notification request failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, handleErrorResponse(resp)
	}

	// The endpoint accepted the message; a broken body read is not a delivery failure.
	if err := drainSuccess(resp); err != nil {
		t.logger.DebugContext(ctx, "discard notification response", "status", resp.StatusCode, "error", err)
	}
	return resp.StatusCode, nil
}

func (t *Transport) acquire() (*http.Client, func()) {
	if t.client != nil {
		return t.client, func() {}
	}
	base, ok := http.DefaultTransport.(*http.Transport)
	var rt http.RoundTripper = http.DefaultTransport
	if ok {
		rt = base.Clone()
	}
	hc := &http.Client{Timeout: t.timeout, Transport: rt}
	return hc, hc.CloseIdleConnections
}

func drainSuccess(resp *http.Response) error {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("drain response body: %w", err),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("drain response body: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}

func handleErrorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	// Discard anything past the limit so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	closeErr := resp.Body.Close()

	msg := fmt.Sprintf("endpoint returned %s", resp.Status)
	if text := strings.TrimSpace(string(respBody)); text != "" {
		msg += ": " + text
	}

	var cause error
	if readErr != nil {
		cause = fmt.Errorf("read error response: %w", readErr)
	}
	if closeErr != nil {
		cause = errors.Join(cause, fmt.Errorf("close response body: %w", closeErr))
	}
	return apperrors.DeliveryFailed(resp.StatusCode, msg, cause)
}
