package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	infraconfig "fxrates-exporter/internal/infrastructure/config"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// StatusError is a server-side (5xx) failure.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string { return fmt.Sprintf("server error %d", e.StatusCode) }

// RetryError is returned once every attempt failed.
type RetryError struct {
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }

// Client issues GET requests. Transport errors and 5xx responses are retried
// up to Retries more times with a constant Backoff; any other response is
// returned to the caller as is.
type Client struct {
	HTTP    *http.Client
	Retries int
	Backoff time.Duration
	// Timeout bounds each attempt; zero leaves it to HTTP.
	Timeout time.Duration
	// Redact rewrites the URL before it is logged.
	Redact func(string) string
	Log    *zap.Logger
}

func (c *Client) Get(ctx context.Context, rawURL string) (Response, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	interval := c.Backoff
	if interval <= 0 {
		interval = infraconfig.DefaultRetryBackoff
	}
	retries := c.Retries
	if retries < 0 {
		retries = 0
	}
	target := rawURL
	if c.Redact != nil {
		target = c.Redact(rawURL)
	}

	var (
		attempt int
		out     Response
	)
	op := func() error {
		attempt++
		log.Info("fetch_attempt", zap.Int("attempt", attempt), zap.String("target", target))
		res, err := c.once(ctx, hc, rawURL)
		if err != nil {
			return redactURLError(err, target)
		}
		if res.StatusCode >= 500 {
			return &StatusError{StatusCode: res.StatusCode}
		}
		out = res
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("fetch_attempt_failed",
			zap.Int("attempt", attempt),
			zap.String("target", target),
			zap.Duration("retry_in", wait),
			zap.Error(err))
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(retries)), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		log.Error("fetch_failed", zap.Int("attempts", attempt), zap.String("target", target), zap.Error(err))
		return Response{}, &RetryError{Attempts: attempt, Err: err}
	}
	return out, nil
}

// redactURLError replaces the request URL carried by a *url.Error, which
// net/http puts into every transport error message.
func redactURLError(err error, target string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = target
	}
	return err
}

func (c *Client) once(ctx context.Context, hc *http.Client, rawURL string) (Response, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Response{}, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}
	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}
