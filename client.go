package clickhouse

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// HTTPClient is the interface for the HTTP transport.
type HTTPClient interface {
	// Get sends a GET request to the ClickHouse server.
	Get(ctx context.Context, u *url.URL, header http.Header) (*http.Response, error)
	// Post sends a POST request with the given body to the ClickHouse server.
	Post(ctx context.Context, u *url.URL, header http.Header, body []byte) (*http.Response, error)
}

type httpClient struct {
	client *http.Client
}

// newHTTPClient creates the internal HTTP client. A zero timeout means no
// client-side deadline.
func newHTTPClient(timeout time.Duration) HTTPClient {
	return &httpClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Ensure httpClient implements HTTPClient.
var _ HTTPClient = (*httpClient)(nil)

func (c *httpClient) Get(ctx context.Context, u *url.URL, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header = header
	return c.client.Do(req)
}

func (c *httpClient) Post(ctx context.Context, u *url.URL, header http.Header, body []byte) (*http.Response, error) {
	// A nil body still produces an empty request body, never a missing one.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header = header
	return c.client.Do(req)
}

// Client talks to a ClickHouse server over its HTTP query interface.
//
// A Client is safe for concurrent use: its configuration is read-only after
// construction and every call is an independent request/response exchange.
type Client struct {
	config *Config
	base   *url.URL
	http   HTTPClient
	logger *zap.Logger
}

// NewClient creates a new client from the given config. A nil config uses
// DefaultConfig.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		config: config,
		base:   config.baseURL(),
		http:   newHTTPClient(config.Timeout),
		logger: logger,
	}

	logger.Info("clickhouse client initialized",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("database", config.Database),
	)
	return c, nil
}

// header builds the auth headers sent with every request. The password
// header is omitted entirely for anonymous access.
func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "text/plain")
	h.Set("X-ClickHouse-User", c.config.Username)
	h.Set("X-ClickHouse-Database", c.config.Database)
	if c.config.Password != "" {
		h.Set("X-ClickHouse-Key", c.config.Password)
	}
	return h
}

// queryURL attaches the encoded query parameters to the base endpoint.
// url.Values.Encode sorts keys, so the parameter order is deterministic.
func (c *Client) queryURL(params url.Values) *url.URL {
	u := *c.base
	u.RawQuery = params.Encode()
	return &u
}

// send issues one composed request and returns the response body on a 200
// status. Every failure path collapses into an *Error.
func (c *Client) send(ctx context.Context, method string, u *url.URL, body []byte) ([]byte, error) {
	var resp *http.Response
	var err error
	switch method {
	case http.MethodPost:
		if body == nil {
			body = []byte{}
		}
		resp, err = c.http.Post(ctx, u, c.header(), body)
	default:
		resp, err = c.http.Get(ctx, u, c.header())
	}
	if err != nil {
		return nil, errTransport(err)
	}
	defer sneakyBodyClose(resp.Body)
	if err := checkStatusCode(resp); err != nil {
		return nil, err
	}
	return readBody(resp)
}
