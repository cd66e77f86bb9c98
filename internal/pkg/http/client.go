package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/circuitbreaker"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	nrpkg "github.com/sparkclean/cleantrack/internal/pkg/newrelic"
	"github.com/sparkclean/cleantrack/internal/pkg/retry"
)

const (
	// DefaultTimeout for HTTP requests
	DefaultTimeout = 10 * time.Second
	// RequestIDHeader propagates the inbound request id upstream
	RequestIDHeader = "X-Request-ID"
)

type ctxKey struct{}

// WithRequestID stores a request id to be forwarded on outgoing calls
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Config configures a Client
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retry   retry.Config
}

// Client is a JSON client for a bearer-token REST API, guarded by a circuit
// breaker per host and retried with exponential backoff.
type Client struct {
	baseURL    string
	token      string
	httpClient *nethttp.Client
	retrier    *retry.Retrier
	single     *retry.Retrier
	breakers   *circuitbreaker.Manager
	logger     *logger.ZapLogger
}

// NewClient creates a new API client
func NewClient(config Config, log *logger.ZapLogger) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	retryConfig := config.Retry
	if retryConfig.IsRetryable == nil {
		retryConfig.IsRetryable = IsRetryable
	}
	single := retry.NoRetry()
	single.IsRetryable = IsRetryable

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		token:   config.Token,
		httpClient: &nethttp.Client{
			Timeout: config.Timeout,
		},
		retrier: retry.New(retryConfig, log),
		single:  retry.New(single, log),
		breakers: circuitbreaker.NewManagerWithConfig(log, func(name string) circuitbreaker.Config {
			cfg := circuitbreaker.DefaultConfig(name)
			cfg.IsFailure = IsRetryable
			return cfg
		}),
		logger: log,
	}
}

type callOptions struct {
	retry bool
}

// CallOption tunes a single call
type CallOption func(*callOptions)

// NoRetry performs the call exactly once
func NoRetry() CallOption {
	return func(o *callOptions) { o.retry = false }
}

// GetJSON performs a GET request and decodes the JSON response into result
func (c *Client) GetJSON(ctx context.Context, endpoint string, result interface{}, opts ...CallOption) error {
	return c.Do(ctx, nethttp.MethodGet, endpoint, nil, result, opts...)
}

// PostJSON performs a POST request with a JSON body
func (c *Client) PostJSON(ctx context.Context, endpoint string, body, result interface{}, opts ...CallOption) error {
	return c.Do(ctx, nethttp.MethodPost, endpoint, body, result, opts...)
}

// PatchJSON performs a PATCH request with a JSON body
func (c *Client) PatchJSON(ctx context.Context, endpoint string, body, result interface{}, opts ...CallOption) error {
	return c.Do(ctx, nethttp.MethodPatch, endpoint, body, result, opts...)
}

// Do sends one logical request. Non-2xx responses become *APIError; result may be nil.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, result interface{}, opts ...CallOption) error {
	o := callOptions{retry: true}
	for _, opt := range opts {
		opt(&o)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	target := c.baseURL + endpoint
	retrier := c.retrier
	if !o.retry {
		retrier = c.single
	}

	var respBody []byte
	err := c.breakers.Execute(ctx, hostOf(c.baseURL), func(ctx context.Context) error {
		return retrier.Execute(ctx, func(ctx context.Context) error {
			var err error
			respBody, err = c.roundTrip(ctx, method, target, payload)
			return err
		})
	})
	if err != nil {
		return err
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, endpoint, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*nethttp.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		c.logger.Debug("HTTP request failed",
			logger.String("method", method),
			logger.String("url", target),
			logger.Err(err))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("HTTP request completed",
		logger.String("method", method),
		logger.String("url", target),
		logger.Int("status_code", resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    ErrorMessage(body, nethttp.StatusText(resp.StatusCode)),
	}
	if resp.StatusCode == nethttp.StatusUnauthorized {
		c.logger.Warn("Booking API rejected the token",
			logger.String("url", target))
	}
	return nil, apiErr
}

// IsRetryable reports whether err is worth another attempt: transport
// failures, 5xx and 429 are; other API errors and open circuits are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == nethttp.StatusTooManyRequests
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
