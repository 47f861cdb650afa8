// Package fetch is the HTTP client used to pull remote JSON documents.
//
// Every attempt runs under a fixed timeout. Network failures and 5xx
// responses are retried a small number of times with exponential backoff;
// 4xx responses and timeouts fail immediately. Successful GETs are kept in
// an expiring LRU cache so repeated reads within the TTL never hit the
// network.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/storyhub-org/storyhub/pkg/config"
	"github.com/storyhub-org/storyhub/pkg/logging"
	"github.com/storyhub-org/storyhub/pkg/stats"
)

// MaxBodyBytes caps the size of a fetched document.
const MaxBodyBytes = 32 << 20

// ErrTimeout is returned when an attempt exceeds the per-request timeout.
var ErrTimeout = errors.New("request timed out")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500
}

type Options struct {
	Timeout   time.Duration
	Retries   int
	CacheTTL  time.Duration
	CacheSize int

	// InitialInterval is the first backoff delay; zero means 200ms.
	InitialInterval time.Duration
	HTTPClient      *http.Client
}

// Stats are cache counters since the client was created.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Entries int     `json:"entries"`
	HitRate float64 `json:"hit_rate"`
}

type Client struct {
	opts   Options
	http   *http.Client
	cache  *expirable.LRU[string, []byte]
	hits   atomic.Int64
	misses atomic.Int64
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 200 * time.Millisecond
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		opts:  opts,
		http:  hc,
		cache: expirable.NewLRU[string, []byte](opts.CacheSize, nil, opts.CacheTTL),
	}
}

// NewFromConfig builds a client from the fetch_* settings.
func NewFromConfig(cfg *config.StoryhubConfig) *Client {
	return New(Options{
		Timeout:   cfg.FetchTimeoutDuration(),
		Retries:   cfg.FetchRetries,
		CacheTTL:  cfg.FetchCacheTTLDuration(),
		CacheSize: cfg.FetchCacheSize,
	})
}

// Get returns the body of url, from cache when fresh.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if body, ok := c.cache.Get(url); ok {
		c.hits.Add(1)
		return body, nil
	}
	c.misses.Add(1)

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		b, err := c.do(ctx, url)
		if err != nil {
			logging.Log.WithFields(logrus.Fields{
				"url":     url,
				"attempt": attempt,
			}).WithError(err).Debug("fetch attempt failed")
			return err
		}
		body = b
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.opts.InitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.opts.Retries)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	c.cache.Add(url, body)
	return body, nil
}

// GetJSON fetches url and decodes it into v.
func (c *Client) GetJSON(ctx context.Context, url string, v interface{}) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// Invalidate drops url from the cache.
func (c *Client) Invalidate(url string) {
	c.cache.Remove(url)
}

func (c *Client) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Entries: c.cache.Len(),
		HitRate: stats.Rate(hits, hits+misses),
	}
}

// do performs one attempt. Errors that must not be retried are wrapped in
// backoff.Permanent.
func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(ctx, attemptCtx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		serr := &StatusError{URL: url, Code: resp.StatusCode}
		if serr.Temporary() {
			return nil, serr
		}
		return nil, backoff.Permanent(serr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, classify(ctx, attemptCtx, err)
	}
	return body, nil
}

func classify(parent, attempt context.Context, err error) error {
	if parent.Err() != nil {
		return backoff.Permanent(parent.Err())
	}
	var netErr net.Error
	if errors.Is(attempt.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return backoff.Permanent(fmt.Errorf("%w: %v", ErrTimeout, err))
	}
	return err
}
