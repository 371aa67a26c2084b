// Package apiclient talks to the upstream back-office REST API on behalf of a
// signed-in session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const maxErrorBody = 1 << 20

// Session is the credential holder a Client acts for. Logout must only drop
// credentials; navigation is left to the caller.
type Session interface {
	AccessToken() string
	Logout()
}

// Options configures a Factory.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Logger     *slog.Logger
	Registerer prometheus.Registerer
	HTTPClient *http.Client
}

// Factory holds the shared transport; it hands out session-bound clients.
type Factory struct {
	base    *url.URL
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics
}

// NewFactory validates the base URL and prepares the shared transport.
func NewFactory(opts Options) (*Factory, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q is not absolute", opts.BaseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		base:    base,
		http:    httpClient,
		logger:  logger,
		metrics: newMetrics(opts.Registerer),
	}, nil
}

// For returns a client acting for sess. sess may be nil for anonymous calls.
func (f *Factory) For(sess Session) *Client {
	return &Client{factory: f, session: sess}
}

// Client issues upstream requests with the bearer token of one session.
type Client struct {
	factory *Factory
	session Session
}

// GetJSON performs GET path?query and decodes the JSON body into dest.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	return decode(resp, dest)
}

// PostJSON sends body as JSON and decodes the response into dest (may be nil).
func (c *Client) PostJSON(ctx context.Context, path string, body, dest any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, dest)
}

// PutJSON sends body as JSON and decodes the response into dest (may be nil).
func (c *Client) PutJSON(ctx context.Context, path string, body, dest any) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, dest)
}

// Delete issues DELETE path and decodes the response into dest (may be nil).
func (c *Client) Delete(ctx context.Context, path string, dest any) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil, nil, "")
	if err != nil {
		return err
	}
	return decode(resp, dest)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, dest any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	}
	resp, err := c.do(ctx, method, path, nil, payload, "application/json")
	if err != nil {
		return err
	}
	return decode(resp, dest)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	target := c.factory.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.session != nil {
		if token := c.session.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.factory.http.Do(req)
	if err != nil {
		c.factory.metrics.observe(method, 0, started)
		c.factory.logger.Warn("upstream request failed",
			slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	c.factory.metrics.observe(method, resp.StatusCode, started)

	if resp.StatusCode == http.StatusForbidden {
		drain(resp)
		if c.session != nil {
			c.session.Logout()
		}
		c.factory.logger.Info("upstream rejected token", slog.String("method", method), slog.String("path", path))
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer drain(resp)
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode, Detail: detailFrom(raw)}
		c.factory.logger.Warn("upstream error",
			slog.String("method", method), slog.String("path", path),
			slog.Int("status", resp.StatusCode), slog.String("detail", apiErr.Detail))
		return nil, apiErr
	}
	return resp, nil
}

func decode(resp *http.Response, dest any) error {
	defer drain(resp)
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("apiclient: decode %s: %w", resp.Request.URL.Path, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
