package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"storefront/internal/logger"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

var HttpClientTracer = otel.Tracer("HttpClient")

// HTTPClient is a small JSON client with trace propagation.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	headers map[string]string
}

// RequestOptions for request configuration
type RequestOptions struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams map[string]string
	Body        interface{}
	Timeout     time.Duration
	Context     context.Context
}

// Response wrapper with generic type
type Response[T any] struct {
	Data       T
	StatusCode int
	Headers    http.Header
	RawBody    []byte
}

// NewHTTPClient creates a client; a zero timeout means none.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: make(map[string]string),
	}
}

func (c *HTTPClient) SetDefaultHeader(key, value string) {
	c.headers[key] = value
}

func (c *HTTPClient) RemoveDefaultHeader(key string) {
	delete(c.headers, key)
}

// Do performs the request and decodes a 2xx JSON body into result. Non-2xx
// responses are returned as they are; callers decide what they mean.
func (c *HTTPClient) Do(opts RequestOptions, result interface{}) (*Response[json.RawMessage], error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	fullURL, err := c.buildURL(opts.URL, opts.QueryParams)
	if err != nil {
		logger.Error(ctx, "Failed to build URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		bodyBytes, err := c.encodeBody(opts.Body)
		if err != nil {
			logger.Error(ctx, "Failed to encode body", slog.Any("error", err))
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	ctx, span := HttpClientTracer.Start(ctx, "HttpClient "+opts.Method+" "+opts.URL)
	defer span.End()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, fullURL, bodyReader)
	if err != nil {
		logger.Error(ctx, "Failed to create request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Inject standard otel headers
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	c.setHeaders(req, map[string]string{
		"X-Trace-ID": span.SpanContext().TraceID().String(),
	})
	c.setHeaders(req, opts.Headers)

	logger.Debug(ctx, "HttpClient request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error(ctx, "Failed to execute request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error(ctx, "Failed to read response body", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &Response[json.RawMessage]{
		Data:       json.RawMessage(rawBody),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		RawBody:    rawBody,
	}
	if result != nil && out.IsSuccess() && len(rawBody) > 0 {
		if err := json.Unmarshal(rawBody, result); err != nil {
			logger.Error(ctx, "Failed to parse response", slog.Any("error", err))
			return out, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return out, nil
}

func (c *HTTPClient) Get(ctx context.Context, url string, result interface{}) (*Response[json.RawMessage], error) {
	return c.Do(RequestOptions{Method: http.MethodGet, URL: url, Context: ctx}, result)
}

func (c *HTTPClient) Post(ctx context.Context, url string, body, result interface{}) (*Response[json.RawMessage], error) {
	return c.Do(RequestOptions{Method: http.MethodPost, URL: url, Body: body, Context: ctx}, result)
}

func (c *HTTPClient) Put(ctx context.Context, url string, body, result interface{}) (*Response[json.RawMessage], error) {
	return c.Do(RequestOptions{Method: http.MethodPut, URL: url, Body: body, Context: ctx}, result)
}

func (c *HTTPClient) Delete(ctx context.Context, url string, result interface{}) (*Response[json.RawMessage], error) {
	return c.Do(RequestOptions{Method: http.MethodDelete, URL: url, Context: ctx}, result)
}

// buildURL builds complete URL with query parameters
func (c *HTTPClient) buildURL(endpoint string, queryParams map[string]string) (string, error) {
	var fullURL string

	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		fullURL = endpoint
	} else {
		endpoint = strings.TrimLeft(endpoint, "/")
		fullURL = fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	}

	if len(queryParams) > 0 {
		u, err := url.Parse(fullURL)
		if err != nil {
			return "", err
		}

		q := u.Query()
		for k, v := range queryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		fullURL = u.String()
	}

	return fullURL, nil
}

func (c *HTTPClient) encodeBody(body interface{}) ([]byte, error) {
	switch v := body.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case io.Reader:
		return io.ReadAll(v)
	default:
		return json.Marshal(body)
	}
}

// setHeaders applies defaults first, then the per-request headers.
func (c *HTTPClient) setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

func (r *Response[T]) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response[T]) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response[T]) IsServerError() bool {
	return r.StatusCode >= 500
}
