// Package photon is a client for the Photon geocoder (https://photon.komoot.io).
//
// It supports forward searches (free text to places) and reverse searches
// (coordinates to places). Both return the features in the order the service
// ranked them.
package photon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/manzanit0/photon/pkg/whttp"
)

const (
	// DefaultBaseURL is the public Photon instance run by komoot.
	DefaultBaseURL   = "https://photon.komoot.io"
	DefaultUserAgent = "photon-go/1.0"

	forwardPath = "/api"
	reversePath = "/reverse"
)

// Client is safe for concurrent use.
type Client struct {
	h          *http.Client
	userAgent  string
	forwardURL string
	reverseURL string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.h = h
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the Photon instance at baseURL. Trailing
// slashes are ignored, so "https://host" and "https://host/" are equivalent.
func NewClient(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	c := &Client{
		userAgent:  DefaultUserAgent,
		forwardURL: base + forwardPath,
		reverseURL: base + reversePath,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.h == nil {
		c.h = whttp.NewLoggingClient()
	}

	return c
}

// NewDefaultClient creates a client for DefaultBaseURL.
func NewDefaultClient(opts ...Option) *Client {
	return NewClient(DefaultBaseURL, opts...)
}

func (c *Client) ForwardURL() string {
	return c.forwardURL
}

func (c *Client) ReverseURL() string {
	return c.reverseURL
}

// ForwardSearch looks up places matching query. A nil filter sends only the
// query. No matches is an empty slice, not an error.
func (c *Client) ForwardSearch(ctx context.Context, query string, filter *ForwardFilter) ([]Feature, error) {
	params := []QueryParam{{"q", query}}
	if filter != nil {
		params = append(params, filter.Params()...)
	}

	return c.search(ctx, c.forwardURL, params)
}

// ReverseSearch looks up places at coords.
func (c *Client) ReverseSearch(ctx context.Context, coords LatLon, filter *ReverseFilter) ([]Feature, error) {
	params := []QueryParam{
		{"lat", formatFloat(coords.Lat)},
		{"lon", formatFloat(coords.Lon)},
	}
	if filter != nil {
		params = append(params, filter.Params()...)
	}

	return c.search(ctx, c.reverseURL, params)
}

func (c *Client) search(ctx context.Context, endpoint string, params []QueryParam) ([]Feature, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+encodeQuery(params), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.h.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return resolve(DecodeResponse(body), res.StatusCode)
}

func resolve(o Outcome, status int) ([]Feature, error) {
	switch o := o.(type) {
	case Decoded:
		return o.Features, nil
	case ServiceFailure:
		return nil, &ServiceError{StatusCode: status, Message: o.Message}
	case Malformed:
		return nil, &DecodeError{StatusCode: status, Err: o.Err}
	default:
		return nil, fmt.Errorf("unexpected decode outcome %T", o)
	}
}
