package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"map-distance-service/internal/platform/metrics"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// IsStatus reports whether err is an upstream StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client is the HTTP plumbing shared by the provider adapters: request
// construction, outbound rate limiting, status mapping and metrics.
// Requests are attempted once; failures are returned to the caller as-is.
type Client struct {
	Provider string
	Session  *http.Client
	Limiter  *rate.Limiter
	Header   http.Header
}

func NewClient(provider string, session *http.Client, limiter *rate.Limiter) *Client {
	if session == nil {
		session = &http.Client{}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Client{
		Provider: provider,
		Session:  session,
		Limiter:  limiter,
		Header:   http.Header{},
	}
}

func (c *Client) NewRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Do waits for the rate limiter, sends req and maps 4xx/5xx to *StatusError.
// endpoint labels the call in metrics.
func (c *Client) Do(endpoint string, req *http.Request) (*http.Response, error) {
	if err := c.Limiter.Wait(req.Context()); err != nil {
		metrics.ProviderRequests.WithLabelValues(c.Provider, endpoint, "rate_limited").Inc()
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	resp, err := c.Session.Do(req)
	metrics.ProviderDuration.WithLabelValues(c.Provider, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(c.Provider, endpoint, "network_error").Inc()
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		metrics.ProviderRequests.WithLabelValues(c.Provider, endpoint, "http_"+strconv.Itoa(resp.StatusCode)).Inc()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	metrics.ProviderRequests.WithLabelValues(c.Provider, endpoint, "ok").Inc()
	return resp, nil
}
