package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxResponseBytes = 10 << 20

// Config holds client configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	// Headers are sent on every request in addition to the JSON
	// content negotiation headers.
	Headers map[string]string
	Retry   RetryPolicy
	// Breaker enables the circuit breaker stage when non-nil.
	Breaker *BreakerConfig

	MaxIdleConns    int
	MaxConnsPerHost int
}

// DefaultConfig returns production defaults for the given endpoint.
func DefaultConfig(endpoint string) Config {
	breaker := DefaultBreakerConfig("graphql")
	return Config{
		Endpoint:        endpoint,
		Timeout:         10 * time.Second,
		Retry:           DefaultRetryPolicy(),
		Breaker:         &breaker,
		MaxIdleConns:    100,
		MaxConnsPerHost: 100,
	}
}

// Client executes GraphQL operations over HTTP through a middleware
// chain: timing, error classification, retry, per-attempt logging,
// circuit breaker, then the HTTP transport. Timing sits outermost so
// its sample carries the classified outcome of the whole sequence.
type Client struct {
	endpoint   string
	headers    map[string]string
	httpClient *http.Client
	exec       RoundTripFunc
	logger     *slog.Logger
}

// NewClient builds a Client with the full middleware chain.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		headers:  cfg.Headers,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        cfg.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
				MaxConnsPerHost:     cfg.MaxConnsPerHost,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}

	mws := []Middleware{
		Timing(logger),
		ClassifyErrors(logger),
		Retry(cfg.Retry, logger),
		Logging(logger),
	}
	if cfg.Breaker != nil {
		mws = append(mws, CircuitBreaker(*cfg.Breaker, logger))
	}
	c.exec = Chain(c.roundTrip, mws...)
	return c
}

// Execute runs a GraphQL operation through the middleware chain.
//
// On success err is nil. A *PartialError is returned together with the
// response so callers can use the data that did arrive. *NetworkError
// and *ApplicationError come back with a nil response.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	return c.exec(ctx, req)
}

// roundTrip is the innermost stage: one HTTP POST per call.
func (c *Client) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Operation: req.OperationName, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Operation: req.OperationName, Err: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode >= http.StatusInternalServerError {
		return nil, &NetworkError{
			Operation: req.OperationName,
			Err:       fmt.Errorf("upstream returned %d", httpResp.StatusCode),
		}
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, &ApplicationError{
				Operation: req.OperationName,
				Code:      fmt.Sprintf("HTTP_%d", httpResp.StatusCode),
				Message:   fmt.Sprintf("upstream returned %d with non-GraphQL body", httpResp.StatusCode),
			}
		}
		return nil, &NetworkError{Operation: req.OperationName, Err: fmt.Errorf("decode response: %w", err)}
	}

	if httpResp.StatusCode != http.StatusOK && len(resp.Errors) == 0 {
		return nil, &ApplicationError{
			Operation: req.OperationName,
			Code:      fmt.Sprintf("HTTP_%d", httpResp.StatusCode),
			Message:   fmt.Sprintf("upstream returned %d", httpResp.StatusCode),
		}
	}

	return &resp, nil
}
