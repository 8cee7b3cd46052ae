// Package httpclient is the shared outbound HTTP layer for collaborator services.
// Every call is traced (X-Request-Id / X-Span-Id) and logged.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"research-chat/cmd/api/trace"
	"research-chat/internal/logger"
)

const (
	DefaultTimeout = 10 * time.Second

	maxLogBody      = 1024
	maxResponseBody = 5 * 1024 * 1024
)

// HTTPError is a non-2xx response from a collaborator.
type HTTPError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s request failed: status=%d body=%s", e.Service, e.StatusCode, e.Body)
}

type tracingTransport struct {
	inner http.RoundTripper
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx := req.Context()

	requestID, spanID := trace.NextSpanID(ctx)
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("X-Span-Id", spanID)

	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if userID := trace.UserIDFromContext(ctx); userID != "" {
		fields["user_id"] = userID
	}
	// 바디는 로깅용으로 한 번 읽고 전송을 위해 되돌려 놓는다.
	if req.Body != nil && req.GetBody != nil {
		if b, err := req.GetBody(); err == nil {
			raw, _ := io.ReadAll(io.LimitReader(b, maxLogBody))
			_ = b.Close()
			if len(raw) > 0 {
				fields["body"] = string(raw)
			}
		}
	}

	resp, err := t.inner.RoundTrip(req)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request done", fields)
	return resp, nil
}

// New returns an http.Client with tracing and logging. A zero timeout means DefaultTimeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &tracingTransport{inner: http.DefaultTransport},
	}
}

// BaseClient binds an http.Client to one collaborator's base URL.
type BaseClient struct {
	Service    string
	BaseURL    string
	HTTPClient *http.Client
}

// NewBaseClient uses httpClient as is, or New(0) when it is nil.
func NewBaseClient(service, baseURL string, httpClient *http.Client) *BaseClient {
	if httpClient == nil {
		httpClient = New(0)
	}
	return &BaseClient{Service: service, BaseURL: baseURL, HTTPClient: httpClient}
}

// URL joins relPath onto the base URL. relPath must not carry a query string.
func (c *BaseClient) URL(relPath string) (string, error) {
	if strings.Contains(relPath, "?") {
		return "", fmt.Errorf("httpclient: query string in path %q", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("httpclient: bad base url: %w", err)
	}
	base.Path = path.Join(base.Path, relPath)
	return base.String(), nil
}

// PostJSON sends payload as JSON and decodes a 200 response into out.
// Any other status is returned as *HTTPError.
func (c *BaseClient) PostJSON(ctx context.Context, relPath string, payload, out any) error {
	target, err := c.URL(relPath)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s request encode failed: %w", c.Service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%s response read failed: %w", c.Service, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &HTTPError{Service: c.Service, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s response decode failed: %w", c.Service, err)
	}
	return nil
}
