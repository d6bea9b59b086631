// Package upstream wraps outbound calls to third-party APIs.
//
// The client never lets the transport follow redirects on its own: net/http
// drops the Authorization header when a redirect changes host or scheme,
// which silently turns an authenticated upload into an anonymous one. A
// redirect is instead replayed once, by hand, with the body rebuilt and the
// original Authorization header re-attached.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"penbridge/metrics"
)

// Request describes one logical upstream call.
type Request struct {
	Method string
	URL    string
	Header http.Header

	// Body may be nil for requests without a body
	Body BodyFunc

	// FollowRedirect replays a single 301/302/307/308 against its Location
	FollowRedirect bool
}

// Client performs upstream calls and turns every outcome into a Result.
type Client struct {
	name       string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// NewClient creates a client for the named upstream. A zero timeout leaves
// the transport default in place.
func NewClient(name string, timeout time.Duration, logger *zap.Logger, collector *metrics.Collector) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		name: name,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger:  logger.With(zap.String("upstream", name)),
		metrics: collector,
	}
}

// Name returns the upstream name used in logs and metrics.
func (c *Client) Name() string {
	return c.name
}

// Send performs the call. It never returns a Go error: network failures
// become a 500 Result, non-2xx responses carry the upstream status.
func (c *Client) Send(ctx context.Context, req Request) Result {
	resp, err := c.do(ctx, req, req.URL)
	if err != nil {
		return failure(http.StatusInternalServerError, err.Error())
	}

	if req.FollowRedirect && isRedirect(resp.StatusCode) {
		if location := resp.Header.Get("Location"); location != "" {
			drain(resp)

			target, err := resolveLocation(req.URL, location)
			if err != nil {
				return failure(http.StatusInternalServerError, err.Error())
			}

			c.logger.Info("following upstream redirect",
				zap.String("method", req.Method),
				zap.Int("status", resp.StatusCode),
				zap.String("from", req.URL),
				zap.String("to", target),
			)
			c.metrics.RecordRedirect(c.name)

			// Exactly one hop. Whatever comes back is final.
			resp, err = c.do(ctx, req, target)
			if err != nil {
				return failure(http.StatusInternalServerError, err.Error())
			}
		}
	}
	defer resp.Body.Close()

	return c.read(resp)
}

func (c *Client) do(ctx context.Context, req Request, target string) (*http.Response, error) {
	var body io.Reader
	var contentType string
	if req.Body != nil {
		var err error
		body, contentType, err = req.Body()
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if auth := req.Header.Get("Authorization"); auth != "" {
		httpReq.Header.Set("Authorization", auth)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		c.metrics.RecordUpstream(c.name, req.Method, 0, duration)
		c.logger.Warn("upstream request failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	c.metrics.RecordUpstream(c.name, req.Method, resp.StatusCode, duration)
	c.logger.Debug("upstream response",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

func (c *Client) read(resp *http.Response) Result {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(http.StatusInternalServerError, fmt.Sprintf("failed to read upstream response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(data, resp.StatusCode)
		c.logger.Info("upstream returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return failure(resp.StatusCode, msg)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return success(resp.StatusCode, json.RawMessage("null"))
	}
	if !json.Valid(trimmed) {
		return failure(http.StatusInternalServerError, "Upstream returned an invalid JSON response")
	}

	return success(resp.StatusCode, json.RawMessage(trimmed))
}

func resolveLocation(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid request URL: %w", err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid redirect location %q: %w", location, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
