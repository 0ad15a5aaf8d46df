// Package inference wraps the external vision model API behind a single
// transcription call with retry, backoff, and error classification.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vrushal1018/points-table-system/internal/domain/model"
	"github.com/vrushal1018/points-table-system/pkg/logger"
	"github.com/vrushal1018/points-table-system/pkg/metrics"
)

const (
	defaultTimeout    = 45 * time.Second
	defaultBaseDelay  = 2 * time.Second
	defaultMaxRetries = 3
	defaultMIMEType   = "image/jpeg"
)

// Config captures the settings required to talk to the vision model API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration // per-attempt bound, independent of backoff
}

// Client calls the vision model's generateContent endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client

	maxRetries int
	baseDelay  time.Duration
	sleeper    func(time.Duration)
	log        logger.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the retry count and the first backoff delay.
// The delay doubles for every further retry.
func WithRetryPolicy(maxRetries int, baseDelay time.Duration) Option {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithSleeper overrides how backoff sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithLogger sets the logger used for attempt and retry reporting.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient constructs a vision model client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:   strings.TrimSpace(cfg.Model),
			Timeout: cfg.Timeout,
		},
		httpClient: &http.Client{},
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcribe sends one image with an extraction instruction and returns the
// model's free-form text. Retryable failures (rate limit, upstream
// overload, timeout) back off exponentially from the base delay; all other
// failures return immediately. The returned error is always a classified
// *Error.
func (c *Client) Transcribe(ctx context.Context, img model.Image, instruction string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &Error{Kind: KindAuth}
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		metrics.RecordInferenceAttempt()
		start := time.Now()

		text, err := c.sendOnce(ctx, img, instruction)
		if err == nil {
			metrics.RecordInferenceLatency(time.Since(start).Seconds())
			return text, nil
		}

		lastErr = c.classify(err)
		if !lastErr.Retryable() || attempt == c.maxRetries {
			break
		}
		if ctx.Err() != nil {
			break
		}

		delay := c.baseDelay << attempt // 2s, 4s, 8s with defaults
		metrics.RecordInferenceRetry()
		if c.log != nil {
			c.log.Warn(ctx, "inference attempt failed; retrying",
				logger.String("image", img.Name),
				logger.String("kind", string(lastErr.Kind)),
				logger.Duration("backoff", delay),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.maxRetries+1),
			)
		}
		if err := c.sleep(ctx, delay); err != nil {
			break
		}
	}

	metrics.RecordInferenceFailure(string(lastErr.Kind))
	return "", lastErr
}

// generateRequest mirrors the generateContent request schema.
type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// statusError carries a non-2xx upstream response until classification.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("inference request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *Client) sendOnce(parent context.Context, img model.Image, instruction string) (string, error) {
	ctx, cancel := context.WithTimeout(parent, c.cfg.Timeout)
	defer cancel()

	mime := img.MIME
	if mime == "" {
		mime = defaultMIMEType
	}
	payload := generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: instruction},
				{InlineData: &inlineData{
					MIMEType: mime,
					Data:     base64.StdEncoding.EncodeToString(img.Data),
				}},
			},
		}},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("inference request: encode body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, c.cfg.Model, url.QueryEscape(c.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("inference request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("inference request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &statusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("inference request: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", &statusError{StatusCode: decoded.Error.Code, Body: decoded.Error.Message}
	}
	for _, cand := range decoded.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", errors.New("inference request: empty response")
}

// classify maps a raw attempt error onto the failure taxonomy.
func (c *Client) classify(err error) *Error {
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	var status *statusError
	if errors.As(err, &status) {
		switch {
		case status.StatusCode == http.StatusBadRequest:
			return &Error{Kind: KindBadRequest}
		case status.StatusCode == http.StatusUnauthorized,
			status.StatusCode == http.StatusForbidden:
			return &Error{Kind: KindAuth}
		case status.StatusCode == http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimited}
		case status.StatusCode == http.StatusServiceUnavailable,
			strings.Contains(strings.ToLower(status.Body), "overloaded"):
			return &Error{Kind: KindUnavailable}
		default:
			return &Error{Kind: KindOther, Detail: strings.TrimSpace(status.Body)}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Kind: KindTimeout}
	}

	return &Error{Kind: KindOther}
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
