package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty for HTTP requests to the payment gateway.
// No retries; callers get exactly one attempt per call.
type Client struct {
	r *resty.Client
}

// New creates a new HTTP client with sensible defaults.
func New() *Client {
	r := resty.New().
		SetTimeout(30 * time.Second)

	return &Client{r: r}
}

// WithTimeout sets a custom timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.r.SetTimeout(d)
	return c
}

// WithHeader sets a custom header.
func (c *Client) WithHeader(key, value string) *Client {
	c.r.SetHeader(key, value)
	return c
}

// WithTransport replaces the underlying transport.
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.r.SetTransport(rt)
	return c
}

// Get sends a GET request and returns the response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.r.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// PostForm sends a POST request with form-urlencoded data and returns the
// response body.
func (c *Client) PostForm(ctx context.Context, url string, data map[string]string) ([]byte, error) {
	resp, err := c.r.R().SetContext(ctx).SetFormData(data).Post(url)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}
