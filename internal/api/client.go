package api

import (
	"log/slog"
	"net/http"
	"time"
)

// Client provides access to a provider REST API.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	// Where the API key goes: a header, a query parameter, or a bearer token
	// when both are empty.
	authHeader string
	authQuery  string
	userAgent  string

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		name:    "provider",
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewFootballDataClient creates a client for football-data.org.
func NewFootballDataClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithName("football-data"), WithHeaderAuth("X-Auth-Token")}, opts...)
	return NewClient(baseURL, apiKey, opts...)
}

// NewOddsClient creates a client for The Odds API.
func NewOddsClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithName("odds-api"), WithQueryAuth("apiKey")}, opts...)
	return NewClient(baseURL, apiKey, opts...)
}

// WithName sets the provider name used in errors and logs.
func WithName(name string) ClientOption {
	return func(c *Client) {
		c.name = name
	}
}

// WithHeaderAuth sends the API key in the named header.
func WithHeaderAuth(header string) ClientOption {
	return func(c *Client) {
		c.authHeader = header
		c.authQuery = ""
	}
}

// WithQueryAuth sends the API key as the named query parameter.
func WithQueryAuth(param string) ClientOption {
	return func(c *Client) {
		c.authQuery = param
		c.authHeader = ""
	}
}

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.name
}
