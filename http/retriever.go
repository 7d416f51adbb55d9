// Package http provides an HTTP-based implementation of harvest.Retriever
// with bounded retries, linear backoff, and a politeness delay between
// requests.
package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/harvest"
)

// Defaults for a Retriever created without options.
const (
	DefaultUserAgent      = "harvest/1.0"
	DefaultTimeout        = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 1 * time.Second
	DefaultDelay          = 1 * time.Second
)

// Ensure Retriever implements harvest.Retriever at compile time.
var _ harvest.Retriever = (*Retriever)(nil)

// Retriever fetches resources over HTTP. Each fetch makes up to maxRetries
// attempts with a per-attempt timeout, and sleeps the inter-request delay
// after every attempt to respect target-server rate limits. The delay is a
// politeness throttle, not a retry mechanism: it applies on success too.
type Retriever struct {
	client         *http.Client
	userAgent      string
	timeout        time.Duration
	maxRetries     int
	retryBaseDelay time.Duration
	delay          time.Duration
	skipVerify     bool
	logger         *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(r *Retriever) {
		r.userAgent = ua
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Retriever) {
		r.timeout = d
	}
}

// WithMaxRetries sets the attempt budget. Values below 1 are treated as 1.
func WithMaxRetries(n int) Option {
	return func(r *Retriever) {
		r.maxRetries = n
	}
}

// WithRetryBaseDelay sets the backoff unit between failed attempts. The
// sleep before attempt n+1 is base*n — linear in the 1-based attempt index,
// not exponential.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(r *Retriever) {
		r.retryBaseDelay = d
	}
}

// WithDelay sets the unconditional inter-request delay applied after every
// attempt, including a successful final one.
func WithDelay(d time.Duration) Option {
	return func(r *Retriever) {
		r.delay = d
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(r *Retriever) {
		r.skipVerify = skip
	}
}

// WithLogger sets a logger for per-attempt failure warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// NewRetriever creates a new HTTP-based Retriever.
func NewRetriever(opts ...Option) *Retriever {
	r := &Retriever{
		userAgent:      DefaultUserAgent,
		timeout:        DefaultTimeout,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
		delay:          DefaultDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxRetries < 1 {
		r.maxRetries = 1
	}

	transport := http.DefaultTransport
	if r.skipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	r.client = &http.Client{
		Timeout:   r.timeout,
		Transport: transport,
	}

	return r
}

// FetchToFile downloads url and writes the complete body to dest. The body
// is held in memory and written to a temporary file in dest's directory,
// then renamed into place, so a failure never leaves a truncated dest.
func (r *Retriever) FetchToFile(ctx context.Context, url, dest string) error {
	content, err := r.fetch(ctx, url)
	if err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(content.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", dest, err)
	}

	return nil
}

// FetchToMemory downloads url and returns the body with its declared
// content type.
func (r *Retriever) FetchToMemory(ctx context.Context, url string) (*harvest.Content, error) {
	return r.fetch(ctx, url)
}

// fetch runs the retry loop. Ordering per attempt is: request, then (when a
// retry follows) the linear backoff sleep, then the inter-request delay.
// The delay also follows the final attempt, successful or not.
func (r *Retriever) fetch(ctx context.Context, url string) (*harvest.Content, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		content, err := r.attempt(ctx, url)
		if err == nil {
			// The body is already complete; cancellation here only cuts
			// the politeness pause short.
			_ = pause(ctx, r.delay)
			return content, nil
		}
		lastErr = err

		if r.logger != nil {
			r.logger.Warn("fetch attempt failed",
				"url", url,
				"attempt", attempt,
				"max_retries", r.maxRetries,
				"error", err,
			)
		}

		if attempt < r.maxRetries {
			if err := pause(ctx, r.retryBaseDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
		if err := pause(ctx, r.delay); err != nil {
			return nil, err
		}
	}

	return nil, harvest.Errorf(harvest.EUNAVAILABLE, "fetch %s: giving up after %d attempts: %v", url, r.maxRetries, lastErr)
}

// attempt issues a single request and reads the full body into memory.
func (r *Retriever) attempt(ctx context.Context, url string) (*harvest.Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &harvest.Content{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// pause sleeps for d or until the context is canceled.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
