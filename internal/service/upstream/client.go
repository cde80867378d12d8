package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	applog "github.com/janisto/profile-composer/internal/platform/logging"
	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/normalize"
)

const (
	userAgent    = "profile-composer"
	acceptHeader = "application/json"
	maxBodyBytes = 1 << 20
)

// Client implements Source over the profile service REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithToken sets the Bearer token for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRateLimiter bounds the outbound request rate. Waiting for a token
// honors the request context.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new upstream API client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{httpClient: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) doRequest(ctx context.Context, path string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes a 200 body into an untyped value. Numbers are kept
// as json.Number so identifiers survive without float rounding.
func (c *Client) decodeResponse(ctx context.Context, resp *http.Response) (any, error) {
	switch {
	case resp.StatusCode == http.StatusOK:
		dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, upstreamErrorFromResponse(resp, UpstreamErrorKindMalformed,
				fmt.Errorf("%w: %v", ErrMalformed, err))
		}
		return v, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, upstreamErrorFromResponse(resp, UpstreamErrorKindNotFound, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		applog.LogWarn(ctx, "upstream rate limit exceeded",
			zap.Int("status", resp.StatusCode),
			zap.String("Retry-After", resp.Header.Get("Retry-After")),
		)
		return nil, upstreamErrorFromResponse(resp, UpstreamErrorKindRateLimited, ErrRateLimited)
	default:
		return nil, upstreamErrorFromResponse(resp, UpstreamErrorKindUpstream, ErrUpstream)
	}
}

func (c *Client) getRecord(ctx context.Context, path, what string) (profile.Record, error) {
	resp, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", what, err)
	}
	defer func() { _ = resp.Body.Close() }()

	v, err := c.decodeResponse(ctx, resp)
	if err != nil {
		return nil, err
	}
	rec, ok := v.(map[string]any)
	if !ok || rec == nil {
		return nil, upstreamErrorFromResponse(resp, UpstreamErrorKindMalformed,
			fmt.Errorf("%w: %s is %T, not an object", ErrMalformed, what, v))
	}
	return profile.Record(rec), nil
}

// FetchUser returns the raw user record for username.
func (c *Client) FetchUser(ctx context.Context, username string) (profile.Record, error) {
	return c.getRecord(ctx, "/profile/"+url.PathEscape(username), "user")
}

// ListUsedTemplates returns the template references applied by username in
// the order the API returns them.
func (c *Client) ListUsedTemplates(ctx context.Context, username string) ([]profile.TemplateRef, error) {
	resp, err := c.doRequest(ctx, "/profile/"+url.PathEscape(username)+"/used-templates")
	if err != nil {
		return nil, fmt.Errorf("fetching used templates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	v, err := c.decodeResponse(ctx, resp)
	if err != nil {
		return nil, err
	}
	return normalize.TemplateRefs(v), nil
}

// FetchTemplate returns the raw template definition for slug.
func (c *Client) FetchTemplate(ctx context.Context, slug string) (profile.Record, error) {
	return c.getRecord(ctx, "/templates/"+url.PathEscape(slug), "template")
}

func upstreamErrorFromResponse(resp *http.Response, kind UpstreamErrorKind, cause error) *UpstreamError {
	return &UpstreamError{
		Kind:       kind,
		Status:     resp.StatusCode,
		RetryAfter: strings.TrimSpace(resp.Header.Get("Retry-After")),
		cause:      cause,
	}
}

// Compile-time interface check
var _ Source = (*Client)(nil)
