// Package fetch is the single HTTP surface of the scraper: a realistic
// user-agent, a per-host rate limit, a request timeout, and one retry
// after a short backoff before giving up on a URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

type Config struct {
	UserAgent    string
	Timeout      time.Duration
	RetryBackoff time.Duration
	PerHostRPS   float64
	Burst        int
}

type Client struct {
	hc      *http.Client
	limiter *HostLimiter
	ua      string
	backoff time.Duration
}

func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 2 * time.Second
	}
	return &Client{
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: NewHostLimiter(cfg.PerHostRPS, cfg.Burst),
		ua:      cfg.UserAgent,
		backoff: cfg.RetryBackoff,
	}
}

// Error is a fetch that failed twice: network trouble or a non-2xx status.
type Error struct {
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Get fetches rawURL, retrying once after the configured backoff on any
// network error or >=400 status. The second failure comes back as *Error.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	body, status, err := c.attempt(ctx, rawURL)
	if err == nil && status < 400 {
		return body, nil
	}

	select {
	case <-ctx.Done():
		return nil, &Error{URL: rawURL, Err: ctx.Err()}
	case <-time.After(c.backoff):
	}

	body, status, err = c.attempt(ctx, rawURL)
	if err != nil {
		return nil, &Error{URL: rawURL, Err: err}
	}
	if status >= 400 {
		return nil, &Error{URL: rawURL, Status: status}
	}
	return body, nil
}

func (c *Client) attempt(ctx context.Context, rawURL string) ([]byte, int, error) {
	if err := c.limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, err
	}
	return b, res.StatusCode, nil
}
