package mapbox

import (
	"errors"
	"map-distance-service/internal/adapters/remote"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.mapbox.com"

// Client implements ports.Geocoder and ports.Router on top of the Mapbox
// Geocoding v5 and Directions v5 APIs. The access token travels as the
// access_token query parameter. The client is safe for concurrent use.
type Client struct {
	http    *remote.Client
	token   string
	baseURL string
	limit   int
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithLimit(n int) Option {
	return func(c *Client) { c.limit = n }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http.Session = hc }
}

func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.http.Limiter = l }
}

func NewClient(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("mapbox access token is empty")
	}

	c := &Client{
		http:    remote.NewClient("mapbox", nil, nil),
		token:   token,
		baseURL: DefaultBaseURL,
		limit:   5,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// do sends req and strips the access token from transport errors,
// which embed the full request URL.
func (c *Client) do(endpoint string, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(endpoint, req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(ue.URL)
		}
		return nil, err
	}
	return resp, nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("access_token") {
		q.Set("access_token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
