package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/infrastructure/config"
	"github.com/coinfolio/coinfolio_service/pkg/circuitbreaker"
	"github.com/coinfolio/coinfolio_service/pkg/retry"
)

const (
	defaultTimeout = 10 * time.Second
	apiKeyHeader   = "x-cg-demo-api-key"
)

// APIError is a non-2xx response from the CoinGecko API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coingecko: status %d: %s", e.StatusCode, e.Body)
}

// Client is a CoinGecko REST client with circuit breaking and
// exponential-backoff retries on transient failures.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	retryCfg   retry.Config
	logger     *zap.Logger
}

func NewClient(cfg config.CoinGeckoConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}

	retryCfg := retry.DefaultConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.MaxRetries
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker: circuitbreaker.New("CoinGeckoAPI", circuitbreaker.Config{
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     60 * time.Second,
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// get performs a GET against path with query params, retrying transient
// failures and decoding the body into response.
func (c *Client) get(ctx context.Context, path string, params url.Values, response interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, retry.WithExponentialBackoff(ctx, c.retryCfg, func() error {
			return c.doRequest(ctx, path, params, response)
		}, isRetryable)
	})
	return err
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, response interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	c.logger.Debug("Sending CoinGecko request", zap.String("url", fullURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if response != nil && len(body) > 0 {
		if err := json.Unmarshal(body, response); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// isRetryable treats network errors, 429 and 5xx as transient.
func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return retry.IsTemporaryError(err)
}
