// Package fetcher acquires novel text from remote URLs, uploaded files and
// custom JSON endpoints.
package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/logging"
	"github.com/mrlokans/novelreader/internal/metrics"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultRetries      = 3
	DefaultBaseDelay    = time.Second
	DefaultCheckTimeout = 10 * time.Second
	PreviewTimeout      = 10 * time.Second
	DefaultUserAgent    = "novelreader/1.0"
)

// prober is satisfied by *Validator.
type prober interface {
	Check(ctx context.Context, rawURL string, timeout time.Duration) entities.ValidationOutcome
}

// Client runs the acquisition pipeline. It is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	userAgent      string
	validator      prober
	baseDelay      time.Duration
	defaultTimeout time.Duration
	defaultRetries int
	timer          backoff.Timer // nil uses a real timer
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithBaseDelay sets the unit of the linear wait between attempts.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithDefaults overrides the timeout and retry count used when Options
// leaves them zero.
func WithDefaults(timeout time.Duration, retries int) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.defaultTimeout = timeout
		}
		if retries > 0 {
			c.defaultRetries = retries
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{},
		userAgent:      DefaultUserAgent,
		baseDelay:      DefaultBaseDelay,
		defaultTimeout: DefaultTimeout,
		defaultRetries: DefaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Global()
	}
	if c.validator == nil {
		c.validator = NewValidator(c.httpClient, c.userAgent, c.metrics)
	}
	return c
}

// CheckURL probes rawURL without downloading it.
func (c *Client) CheckURL(ctx context.Context, rawURL string, timeout time.Duration) entities.ValidationOutcome {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return c.validator.Check(ctx, rawURL, timeout)
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}
