// Package client talks to the simulator's HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("simulator api: %d %s", e.Status, e.Message)
}

// PublicMessage is the server's shopper-facing message, when it sent one.
func (e *APIError) PublicMessage() string { return e.Message }

// Client is an order client backed by the HTTP API.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a Client for baseURL. A nil hc gets a traced client with a
// short timeout.
func New(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if hc == nil {
		hc = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{base: u, http: hc}, nil
}

// CreateOrder posts in to /api/orders.
func (c *Client) CreateOrder(ctx context.Context, in order.Intent) (*order.Response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode intent: %w", err)
	}
	var resp order.Response
	if err := c.do(ctx, http.MethodPost, "/api/orders", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Store fetches one storefront by slug.
func (c *Client) Store(ctx context.Context, slug string) (catalog.Storefront, error) {
	var s catalog.Storefront
	err := c.do(ctx, http.MethodGet, "/api/stores/"+url.PathEscape(slug), nil, &s)
	return s, err
}

// Stores lists the directory narrowed by q. A zero Query lists every store.
func (c *Client) Stores(ctx context.Context, q catalog.Query) ([]catalog.Storefront, error) {
	params := url.Values{}
	if q.Filter != catalog.FilterNone {
		params.Set("filter", string(q.Filter))
	}
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if q.Payment != "" {
		params.Set("payment", string(q.Payment))
	}
	path := "/api/stores"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var out []catalog.Storefront
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
