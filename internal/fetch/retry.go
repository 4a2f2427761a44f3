// Package fetch wraps an HTTP client with bounded retries and exponential
// backoff, the policy both flaky government upstreams require.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/telemetry"
)

// Doer executes a single HTTP request.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// RequestBuilder produces a fresh request per attempt so bodies are never
// replayed from a consumed reader.
type RequestBuilder func(ctx context.Context) (*http.Request, error)

// Config controls retry behavior for one upstream service.
type Config struct {
	// Service labels telemetry for this upstream.
	Service string
	// MaxAttempts caps underlying calls, default 3.
	MaxAttempts int
	// Backoff computes the wait after a failed attempt, default Exponential(1s).
	Backoff BackoffFunc
	// RetryStatus treats HTTP status >= 400 as a retryable failure.
	RetryStatus bool
	Logger      *zap.Logger
	// Sleep is injectable for tests; default waits on a timer or the context.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client retries transport failures, and optionally status failures, with
// exponential backoff.
type Client struct {
	http Doer
	cfg  Config
}

// New builds a Client. A nil doer falls back to an http.Client using the
// package transport.
func New(doer Doer, cfg Config) *Client {
	if doer == nil {
		doer = &http.Client{Transport: NewTransport()}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff == nil {
		cfg.Backoff = Exponential(time.Second)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	return &Client{http: doer, cfg: cfg}
}

// Do executes the built request up to MaxAttempts times. A transport failure
// on the final attempt yields *NetworkError; with RetryStatus set, a status
// failure on the final attempt yields *UpstreamError. The response body is
// the caller's to close.
func (c *Client) Do(ctx context.Context, build RequestBuilder) (*http.Response, error) {
	var lastURL string
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		lastURL = req.URL.String()

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			telemetry.ObserveUpstreamRequest(c.cfg.Service, "error", time.Since(start))
			lastErr = err
			if attempt == c.cfg.MaxAttempts-1 {
				break
			}
			if werr := c.waitRetry(ctx, attempt, lastURL, err); werr != nil {
				return nil, werr
			}
			continue
		}

		telemetry.ObserveUpstreamRequest(c.cfg.Service, statusClass(resp.StatusCode), time.Since(start))
		if c.cfg.RetryStatus && resp.StatusCode >= http.StatusBadRequest {
			drain(resp)
			if attempt == c.cfg.MaxAttempts-1 {
				return nil, &UpstreamError{URL: lastURL, StatusCode: resp.StatusCode}
			}
			statusErr := &UpstreamError{URL: lastURL, StatusCode: resp.StatusCode}
			if werr := c.waitRetry(ctx, attempt, lastURL, statusErr); werr != nil {
				return nil, werr
			}
			continue
		}
		return resp, nil
	}
	return nil, &NetworkError{URL: lastURL, Attempts: c.cfg.MaxAttempts, Err: lastErr}
}

func (c *Client) waitRetry(ctx context.Context, attempt int, url string, cause error) error {
	wait := c.cfg.Backoff(attempt)
	c.cfg.Logger.Warn("upstream attempt failed, retrying",
		zap.String("service", c.cfg.Service),
		zap.String("url", url),
		zap.Int("attempt", attempt+1),
		zap.Duration("wait", wait),
		zap.Error(cause),
	)
	telemetry.ObserveUpstreamRetry(c.cfg.Service)
	return c.cfg.Sleep(ctx, wait)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// NewTransport returns the pooled transport shared by the upstream clients.
// No overall response timeout is set; a hung connection is bounded only by
// the dial and TLS limits below.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
