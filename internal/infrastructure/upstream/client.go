// Package upstream implements the client for the third-party fiscal
// compliance API (OpenAPI.it IT-receipts). The core treats it as a black box:
// submit a payload, get back a result or an error.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Environment selects the upstream endpoint set.
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// ParseEnvironment normalizes an environment label, defaulting to sandbox.
func ParseEnvironment(s string) Environment {
	if s == string(EnvProduction) {
		return EnvProduction
	}
	return EnvSandbox
}

// Upstream resource paths.
const (
	ReceiptsEndpoint       = "/IT-receipts"
	ConfigurationsEndpoint = "/IT-configurations"
)

// Config holds the upstream base URLs and request timeout.
type Config struct {
	ProductionURL string
	SandboxURL    string
	Timeout       time.Duration
}

// Result is the outcome of an upstream call. OK is true for 2xx responses;
// Body carries the response payload either way (a plain-text body is wrapped
// as a JSON string).
type Result struct {
	OK     bool
	Status int
	Body   json.RawMessage
}

// ErrorMessage extracts the upstream "message" field from a failed result,
// falling back to the raw body.
func (r *Result) ErrorMessage() string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(r.Body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return string(r.Body)
}

// Client talks to the upstream fiscal API.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *zap.Logger
}

// NewClient creates an upstream client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// BaseURL returns the base URL for the given environment.
func (c *Client) BaseURL(env Environment) string {
	if env == EnvProduction {
		return c.cfg.ProductionURL
	}
	return c.cfg.SandboxURL
}

// Do performs an authenticated call against the upstream API. A transport
// failure returns an error; an HTTP error status returns a Result with
// OK=false so the caller can record the upstream's refusal.
func (c *Client) Do(ctx context.Context, env Environment, token, method, endpoint string, body any) (*Result, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.BaseURL(env) + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	result := &Result{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Body:   normalizeBody(resp.Header.Get("Content-Type"), raw),
	}

	c.logger.Debug("Upstream call completed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("environment", string(env)),
		zap.Int("status", resp.StatusCode))

	return result, nil
}

// Forward relays a raw request body to the upstream API, used by the relay
// endpoint. Unlike Do, the body is passed through untouched.
func (c *Client) Forward(ctx context.Context, env Environment, authorization, method, endpoint string, body []byte) (*Result, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL(env)+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Result{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Body:   normalizeBody(resp.Header.Get("Content-Type"), raw),
	}, nil
}

// normalizeBody keeps JSON responses verbatim and wraps anything else as a
// JSON string, so Result.Body is always valid JSON.
func normalizeBody(contentType string, raw []byte) json.RawMessage {
	if strings.Contains(contentType, "application/json") && json.Valid(raw) {
		return raw
	}
	wrapped, _ := json.Marshal(string(raw))
	return wrapped
}

// CreateReceipt submits a new fiscal receipt.
func (c *Client) CreateReceipt(ctx context.Context, env Environment, token string, payload ReceiptPayload) (*Result, error) {
	return c.Do(ctx, env, token, http.MethodPost, ReceiptsEndpoint, payload)
}

// RefundReceipt applies a partial refund against an issued receipt.
func (c *Client) RefundReceipt(ctx context.Context, env Environment, token, receiptID string, payload RefundPayload) (*Result, error) {
	return c.Do(ctx, env, token, http.MethodPatch, ReceiptsEndpoint+"/"+receiptID, payload)
}

// VoidReceipt cancels an issued receipt in full.
func (c *Client) VoidReceipt(ctx context.Context, env Environment, token, receiptID string) (*Result, error) {
	return c.Do(ctx, env, token, http.MethodDelete, ReceiptsEndpoint+"/"+receiptID, nil)
}

// ListReceipts fetches the remote receipt collection for reconciliation.
func (c *Client) ListReceipts(ctx context.Context, env Environment, token string) (*Result, error) {
	return c.Do(ctx, env, token, http.MethodGet, ReceiptsEndpoint, nil)
}

// CheckConfiguration verifies the token against the configurations resource.
func (c *Client) CheckConfiguration(ctx context.Context, env Environment, token string) (*Result, error) {
	return c.Do(ctx, env, token, http.MethodGet, ConfigurationsEndpoint, nil)
}
