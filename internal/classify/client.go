// Package classify talks to the remote email classification service.
package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csheth/mailtriage/internal/intake"
)

const (
	requestIDHeader = "X-Request-ID"
	// maxBodyBytes caps a success body. Larger bodies are rejected rather
	// than truncated.
	maxBodyBytes = 1 << 20
	maxErrorBody = 4096
)

// Config describes how to reach the service.
type Config struct {
	Endpoint   string
	HealthURL  string
	HTTPClient *http.Client
	Logger     *zap.Logger
	// NewRequestID overrides request id generation in tests.
	NewRequestID func() string
}

// Client submits emails for classification. It performs a single POST per
// submission and never retries.
type Client struct {
	endpoint  string
	healthURL string
	http      *http.Client
	logger    *zap.Logger
	requestID func() string
}

// New validates the endpoint and derives the health URL when none is set.
func New(cfg Config) (*Client, error) {
	endpoint, err := parseHTTPURL(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	health := strings.TrimSpace(cfg.HealthURL)
	if health == "" {
		health = DefaultHealthURL(endpoint)
	} else if _, err := parseHTTPURL(health); err != nil {
		return nil, fmt.Errorf("invalid health url: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	requestID := cfg.NewRequestID
	if requestID == nil {
		requestID = func() string { return uuid.NewString() }
	}
	return &Client{
		endpoint:  endpoint.String(),
		healthURL: health,
		http:      pickHTTPClient(cfg.HTTPClient),
		logger:    logger.Named("classify"),
		requestID: requestID,
	}, nil
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// No client timeout: the caller's context bounds the request.
	return &http.Client{}
}

func parseHTTPURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%q must use http or https", raw)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%q has no host", raw)
	}
	return parsed, nil
}

// DefaultHealthURL is the endpoint's origin with a /health path.
func DefaultHealthURL(endpoint *url.URL) string {
	health := url.URL{Scheme: endpoint.Scheme, Host: endpoint.Host, Path: "/health"}
	return health.String()
}

// Endpoint returns the classification URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HealthURL returns the URL used by Probe.
func (c *Client) HealthURL() string {
	return c.healthURL
}

// Submit sends one submission and maps the outcome. Errors are one of
// *HTTPError, *NetworkError, *MalformedResponseError, *ServerReportedError, or
// an *intake.ValidationError when an upload can no longer be read.
func (c *Client) Submit(ctx context.Context, sub intake.Submission) (*Result, error) {
	payload, err := encodeSubmission(sub)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, payload.body)
	if err != nil {
		return nil, err
	}
	id := c.requestID()
	req.Header.Set("Content-Type", payload.contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, id)

	logger := c.logger.With(
		zap.String("request_id", id),
		zap.Stringer("mode", sub.Kind),
		zap.String("encoding", payload.kind),
	)
	logger.Debug("submitting email", zap.Int("payload_bytes", payload.size))

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		netErr := newNetworkError(err)
		logger.Warn("classification request failed", zap.Stringer("reason", netErr.Reason), zap.Error(err))
		return nil, netErr
	}
	defer resp.Body.Close()

	logger = logger.With(zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Warn("classification service returned an error status")
		return nil, &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		netErr := newNetworkError(err)
		logger.Warn("failed reading classification response", zap.Error(err))
		return nil, netErr
	}
	if len(body) > maxBodyBytes {
		logger.Warn("classification response too large", zap.Int("limit", maxBodyBytes))
		return nil, &MalformedResponseError{Cause: fmt.Errorf("%w: limit is %d bytes", ErrResponseTooLarge, maxBodyBytes)}
	}

	result, err := decodeResult(body)
	switch {
	case err == nil:
		logger.Info("email classified", zap.String("category", result.Category), zap.Int("content_length", result.ContentLength))
	case errors.Is(err, ErrServerReported):
		logger.Warn("classification rejected by service", zap.String("message", result.Message))
	default:
		logger.Warn("malformed classification response", zap.Error(err))
	}
	return result, err
}

// Probe checks once whether the service answers its health URL. The answer is
// advisory.
func (c *Client) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		c.logger.Warn("health probe could not be built", zap.Error(err))
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("service offline", zap.String("url", c.healthURL), zap.Stringer("reason", networkReason(err)), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("service unhealthy", zap.String("url", c.healthURL), zap.Int("status", resp.StatusCode))
		return false
	}
	c.logger.Info("service online", zap.String("url", c.healthURL))
	return true
}
