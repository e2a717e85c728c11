// Package api is the typed client for the remote catalog/order service. It
// attaches the Token authorization header when a session token is present,
// classifies every failure through pkg/errors, and retries idempotent GETs
// with backoff. Mutating requests are never retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/goustty/storefront/pkg/config"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
)

const errorBodyReadLimit int64 = 4096

// TokenSource supplies the current session token. An empty string means the
// request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to the TokenSource interface.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Client talks to the remote service's REST surface.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      TokenSource
	maxRetries  int
	retryBase   time.Duration
	retryBudget time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource attaches the session token provider.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// NewClient builds the REST client from configuration.
func NewClient(cfg config.APIConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  cfg.MaxRetries,
		retryBase:   cfg.RetryBase,
		retryBudget: cfg.RetryBudget,
	}
	if client.retryBase <= 0 {
		client.retryBase = 250 * time.Millisecond
	}
	if client.retryBudget <= 0 {
		client.retryBudget = 5 * time.Second
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
}

// getJSON fetches the path and decodes the response into out, retrying
// transient failures within the configured budget.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	backoff := retry.NewFibonacci(c.retryBase)
	backoff = retry.WithMaxRetries(uint64(c.maxRetries), backoff)
	backoff = retry.WithMaxDuration(c.retryBudget, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.doJSON(ctx, http.MethodGet, path, nil, out)
		if err != nil && pkgerrors.Retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// doMultipart posts the prebuilt multipart body. contentType carries the
// writer's boundary.
func (c *Client) doMultipart(ctx context.Context, method, path, contentType string, body *bytes.Buffer, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", contentType)

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response body")
	}
	return nil
}

// errorFromResponse maps a non-2xx response to a classified error, carrying
// the server's detail message when one is present.
func errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	code := pkgerrors.FromStatus(resp.StatusCode)

	message := strings.TrimSpace(string(raw))
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
		message = detail.Detail
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return pkgerrors.Wrap(code, fmt.Errorf("status %d", resp.StatusCode), message)
}
