// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobportal-workers/internal/common/errors"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/common/metrics"
)

// TokenSource supplies the bearer token for each request. An empty token
// sends the request without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) string
}

// RetryPolicy bounds automatic retries. Reads retry network failures and 5xx;
// writes retry network failures only.
type RetryPolicy struct {
	ReadAttempts  int
	WriteAttempts int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
}

// DefaultRetryPolicy: three GET attempts, one POST retry, 250ms doubling to 2s.
var DefaultRetryPolicy = RetryPolicy{
	ReadAttempts:  3,
	WriteAttempts: 2,
	BaseDelay:     250 * time.Millisecond,
	MaxDelay:      2 * time.Second,
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Retry   RetryPolicy
	Logger  logger.Logger

	// OnUnauthorized runs once per 401 response, before the error is returned.
	OnUnauthorized func(ctx context.Context)
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	tokens         TokenSource
	retry          RetryPolicy
	logger         logger.Logger
	onUnauthorized func(ctx context.Context)
}

// Response is a successful (2xx) reply with its body fully read.
type Response struct {
	StatusCode int
	Body       []byte
}

// Message returns the server-provided message, if the body carries one.
func (r *Response) Message() string {
	return ExtractMessage(r.Body)
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Retry.ReadAttempts <= 0 {
		opts.Retry.ReadAttempts = DefaultRetryPolicy.ReadAttempts
	}
	if opts.Retry.WriteAttempts <= 0 {
		opts.Retry.WriteAttempts = DefaultRetryPolicy.WriteAttempts
	}
	if opts.Retry.BaseDelay <= 0 {
		opts.Retry.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if opts.Retry.MaxDelay <= 0 {
		opts.Retry.MaxDelay = DefaultRetryPolicy.MaxDelay
	}
	return &Client{
		httpClient:     &http.Client{Timeout: opts.Timeout},
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		tokens:         opts.Tokens,
		retry:          opts.Retry,
		logger:         logger.Named(opts.Logger, "http"),
		onUnauthorized: opts.OnUnauthorized,
	}
}

// ==========================
// Requests
// ==========================

// Get performs an idempotent read with bounded exponential backoff.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	build := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	}
	return c.do(ctx, "GET "+path, build, c.retry.ReadAttempts, shouldRetryRead)
}

// PostJSON sends body encoded as JSON. Only network failures are retried.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.post(ctx, path, "application/json", payload)
}

// PostMultipart sends form as multipart/form-data. Only network failures are retried.
func (c *Client) PostMultipart(ctx context.Context, path string, form *MultipartForm) (*Response, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, fmt.Errorf("encode multipart body: %w", err)
	}
	return c.post(ctx, path, contentType, body)
}

func (c *Client) post(ctx context.Context, path, contentType string, payload []byte) (*Response, error) {
	target := c.baseURL + path
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}
	return c.do(ctx, "POST "+path, build, c.retry.WriteAttempts, shouldRetryWrite)
}

func (c *Client) do(
	ctx context.Context,
	operation string,
	build func(context.Context) (*http.Request, error),
	attempts int,
	retryable func(*errors.StandardError) bool,
) (*Response, error) {
	method := strings.SplitN(operation, " ", 2)[0]
	var lastErr *errors.StandardError

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			c.logger.Debug("retrying request", map[string]interface{}{
				"operation": operation,
				"attempt":   attempt + 1,
				"delay":     delay.String(),
				"lastError": string(lastErr.Code),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, errors.NewNetworkError(operation, ctx.Err())
			}
		}

		req, err := build(ctx)
		if err != nil {
			return nil, fmt.Errorf("build request %s: %w", operation, err)
		}
		req.Header.Set("Accept", "application/json")
		if c.tokens != nil {
			if token := c.tokens.Token(ctx); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, stdErr := c.roundTrip(req, operation)
		if stdErr == nil {
			metrics.APIRequests.WithLabelValues(method, "success").Inc()
			return resp, nil
		}
		metrics.APIRequests.WithLabelValues(method, string(stdErr.Code)).Inc()

		if stdErr.Code == errors.ErrCodeSessionExpired && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}

		lastErr = stdErr
		if !retryable(stdErr) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) roundTrip(req *http.Request, operation string) (*Response, *errors.StandardError) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(operation, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{StatusCode: resp.StatusCode, Body: body}, nil
	}
	return nil, ClassifyStatus(resp.StatusCode, body)
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retry.BaseDelay * time.Duration(1<<(attempt-1))
	if delay > c.retry.MaxDelay {
		delay = c.retry.MaxDelay
	}
	return delay
}

func shouldRetryRead(err *errors.StandardError) bool {
	switch err.Code {
	case errors.ErrCodeNetworkUnavailable, errors.ErrCodeRequestTimeout, errors.ErrCodeServerFault:
		return true
	}
	return false
}

func shouldRetryWrite(err *errors.StandardError) bool {
	switch err.Code {
	case errors.ErrCodeNetworkUnavailable, errors.ErrCodeRequestTimeout:
		return true
	}
	return false
}

// ==========================
// Classification
// ==========================

func classifyTransportError(operation string, err error) *errors.StandardError {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewTimeoutError(operation, err)
	}
	return errors.NewNetworkError(operation, err)
}

// ClassifyStatus maps a non-2xx status and its body to the error taxonomy.
func ClassifyStatus(status int, body []byte) *errors.StandardError {
	msg := ExtractMessage(body)
	switch {
	case status == http.StatusUnauthorized:
		return errors.NewSessionExpiredError(msg)
	case status >= 400 && status < 500:
		return errors.NewServerValidationError(status, msg)
	case status >= 500:
		return errors.NewServerFaultError(status, msg)
	default:
		return errors.NewUnexpectedResponseError(status, msg)
	}
}

// ExtractMessage pulls a human-readable message out of a JSON body. It looks
// at message, msg, error and errors, in that order, at the top level and
// under data.
func ExtractMessage(body []byte) string {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return strings.TrimSpace(plainText(body))
	}
	if msg := messageFrom(doc); msg != "" {
		return msg
	}
	if data, ok := doc["data"].(map[string]interface{}); ok {
		return messageFrom(data)
	}
	return ""
}

func messageFrom(doc map[string]interface{}) string {
	for _, key := range []string{"message", "msg", "error", "errors"} {
		if msg := flatten(doc[key]); msg != "" {
			return msg
		}
	}
	return ""
}

func flatten(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]interface{}:
		if msg := messageFrom(t); msg != "" {
			return msg
		}
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// plainText keeps short non-JSON bodies; HTML error pages are dropped.
func plainText(body []byte) string {
	s := string(body)
	if len(s) > 200 || strings.Contains(s, "<") {
		return ""
	}
	return s
}
