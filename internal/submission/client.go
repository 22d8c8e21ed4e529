// Package submission delivers completed orders to the upstream order
// intake endpoint and interprets its acknowledgement.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Logger defines the logging contract for submission operations.
type Logger func(ctx context.Context, event string, fields map[string]any)

// Payload is the request body delivered to the intake endpoint.
type Payload struct {
	Meta  Meta   `json:"meta"`
	Items []Item `json:"items"`
}

// Meta carries the buyer details attached to a submission.
type Meta struct {
	Company string `json:"company"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Notes   string `json:"notes"`
	State   string `json:"state"`
}

// Item is a single order line in intake wire format.
type Item struct {
	State      string `json:"state"`
	School     string `json:"school"`
	DesignID   string `json:"design_id"`
	DesignName string `json:"design_name"`
	Style      string `json:"style"`
	Wholesale  string `json:"wholesale"`
	MSRP       string `json:"msrp"`
	Qty        int    `json:"qty"`
}

// Result is the decoded acknowledgement from the intake endpoint.
type Result struct {
	OK    bool   `json:"ok"`
	Rows  int    `json:"rows"`
	Error string `json:"error"`
}

// ErrRejected indicates the endpoint processed the request but declined it.
var ErrRejected = errors.New("submission: rejected by endpoint")

// ErrUnavailable indicates the endpoint could not be reached or returned
// a response that could not be interpreted.
var ErrUnavailable = errors.New("submission: endpoint unavailable")

const maxResponseBytes = 1 << 20

// ClientConfig configures the intake Client.
type ClientConfig struct {
	EndpointURL string
	HTTPClient  *http.Client
	Logger      Logger
	Timeout     time.Duration
}

// Client posts order payloads to the configured intake endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   Logger
	tracer   trace.Tracer
}

// NewClient constructs a Client using the given configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.EndpointURL)
	if endpoint == "" {
		return nil, errors.New("submission: endpoint url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &Client{
		endpoint: endpoint,
		http:     httpClient,
		logger:   logger,
		tracer:   otel.Tracer("spiritmart/submission"),
	}, nil
}

// Submit delivers the payload and returns the decoded acknowledgement.
// The endpoint expects the JSON body under a text/plain content type.
func (c *Client) Submit(ctx context.Context, payload Payload) (Result, error) {
	if c == nil {
		return Result{}, errors.New("submission: client is nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("submission: encode payload: %w", err)
	}

	ctx, span := c.tracer.Start(ctx, "submission.Submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("submission.items", len(payload.Items)),
			attribute.Int("submission.bytes", len(body)),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		return Result{}, fmt.Errorf("submission: build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport")
		c.logger(ctx, "submission.transport_error", map[string]any{"error": err.Error()})
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		span.SetStatus(codes.Error, "read response")
		return Result{}, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		span.SetStatus(codes.Error, "decode response")
		c.logger(ctx, "submission.decode_error", map[string]any{
			"status": resp.StatusCode,
			"error":  err.Error(),
		})
		return Result{}, fmt.Errorf("%w: status %d with undecodable body", ErrUnavailable, resp.StatusCode)
	}

	// A non-2xx status is a failed delivery even when the body decodes.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := strings.TrimSpace(result.Error)
		span.SetStatus(codes.Error, "http status")
		c.logger(ctx, "submission.http_error", map[string]any{
			"status": resp.StatusCode,
			"reason": message,
		})
		if message != "" {
			return Result{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, message)
		}
		return Result{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if !result.OK {
		message := strings.TrimSpace(result.Error)
		if message == "" {
			message = "no reason given"
		}
		span.SetStatus(codes.Error, "rejected")
		c.logger(ctx, "submission.rejected", map[string]any{
			"status": resp.StatusCode,
			"reason": message,
		})
		return result, fmt.Errorf("%w: %s", ErrRejected, message)
	}

	c.logger(ctx, "submission.accepted", map[string]any{
		"status": resp.StatusCode,
		"rows":   result.Rows,
	})
	return result, nil
}
