// Package blogapi is a client for The New Heretics blog publishing API.
//
// Every operation issues at most one HTTP request, never retries, and
// reports failures as *Error values classified by ErrorKind.
package blogapi

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the origin of the production blog.
	DefaultBaseURL = "https://thenewheretics.blog"

	// APIKeyHeader carries the API credential on authenticated requests.
	APIKeyHeader = "X-API-Key"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "blogtools/1.0"
)

// Client talks to one blog server.
type Client struct {
	baseURL       string
	apiKey        string
	publicListing bool
	userAgent     string
	client        *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the credential sent in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the overall per-request timeout. Apply it after
// WithHTTPClient; it modifies whichever client is configured at that point.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithPublicListing controls whether ListPosts is sent without the API key.
func WithPublicListing(public bool) Option {
	return func(c *Client) { c.publicListing = public }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a Client for the blog at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		publicListing: true,
		userAgent:     defaultUserAgent,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the blog origin without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostURL returns the public page address of the post with the given slug.
func (c *Client) PostURL(slug string) string {
	return c.baseURL + "/blog/" + slug
}

// HasAPIKey reports whether a credential is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}
