package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"papercast/internal/config"
	"papercast/internal/credentials"
	"papercast/internal/notifications"
)

const (
	defaultRequestTimeout = 120 * time.Second
	defaultRetryAttempts  = 2
	defaultRetryDelay     = time.Second
)

// Client is the shared HTTP core every service facade is built on. It owns
// bearer-token injection, the 5xx retry policy, authentication-failure side
// effects, and expected-absence suppression. Construct it once at startup
// and pass it by reference; there is no package-level instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *credentials.Store
	notifier   notifications.Service
	logger     *slog.Logger

	retryAttempts int
	retryDelay    time.Duration
	sleeper       func(time.Duration)
	onAuthFailure func()
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

// WithNotifier sets the notice service surfaced errors are sent to.
func WithNotifier(notifier notifications.Service) Option {
	return func(c *Client) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetry overrides the retry budget and fixed inter-attempt delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// WithSleeper overrides how retry sleeps are performed (used in tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithAuthFailureHook sets the side effect run once per authentication
// failure, after stored credentials are cleared. The login-surface redirect
// (with its already-on-login guard) is wired here by the caller.
func WithAuthFailureHook(hook func()) Option {
	return func(c *Client) {
		c.onAuthFailure = hook
	}
}

// NewClient constructs the shared HTTP core from backend settings.
func NewClient(cfg config.Backend, creds *credentials.Store, opts ...Option) *Client {
	timeout := defaultRequestTimeout
	if cfg.RequestTimeout > 0 {
		timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}
	retryAttempts := defaultRetryAttempts
	if cfg.RetryAttempts >= 0 {
		retryAttempts = cfg.RetryAttempts
	}
	retryDelay := defaultRetryDelay
	if cfg.RetryDelay > 0 {
		retryDelay = time.Duration(cfg.RetryDelay) * time.Second
	}

	client := &Client{
		baseURL:       strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient:    &http.Client{Timeout: timeout},
		creds:         creds,
		notifier:      nil,
		logger:        slog.Default(),
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

// BaseURL returns the configured backend base address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestSpec struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// doJSON issues a request with an optional JSON body, decoding any JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	spec := requestSpec{method: method, path: path, query: query}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		spec.body = encoded
		spec.contentType = "application/json"
	}
	data, err := c.do(ctx, spec)
	if err != nil {
		return err
	}
	return decodeInto(method, path, data, out)
}

// getBlob issues a GET and returns the raw response bytes, for binary
// artifact downloads the client never interprets.
func (c *Client) getBlob(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, requestSpec{method: http.MethodGet, path: path})
}

// upload issues a multipart POST carrying a single file field and decodes
// the JSON response into out.
func (c *Client) upload(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("POST %s: create form file: %w", path, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("POST %s: read upload: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("POST %s: finalize form: %w", path, err)
	}

	data, err := c.do(ctx, requestSpec{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
	})
	if err != nil {
		return err
	}
	return decodeInto(http.MethodPost, path, data, out)
}

// do performs the request with the full failure contract: bounded retry on
// 5xx, credential clearing plus one redirect hook call on 401, and notice
// suppression for expected absences. Network errors and non-5xx statuses
// fail on the first attempt.
func (c *Client) do(ctx context.Context, spec requestSpec) ([]byte, error) {
	requestID := uuid.NewString()
	attempts := c.retryAttempts + 1
	if attempts < 1 {
		attempts = 1
	}

	var data []byte
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err = c.sendOnce(ctx, spec, requestID, attempt)
		if err == nil {
			return data, nil
		}
		if !IsServerError(err) || attempt == attempts {
			break
		}
		if sleepErr := c.sleep(ctx, c.retryDelay); sleepErr != nil {
			err = sleepErr
			break
		}
	}

	c.finishFailure(ctx, spec, err)
	return nil, err
}

func (c *Client) sendOnce(ctx context.Context, spec requestSpec, requestID string, attempt int) ([]byte, error) {
	endpoint := c.baseURL + spec.path
	if len(spec.query) > 0 {
		endpoint += "?" + spec.query.Encode()
	}

	var body io.Reader
	if spec.body != nil {
		body = bytes.NewReader(spec.body)
	}
	req, err := http.NewRequestWithContext(ctx, spec.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: new request: %w", spec.method, spec.path, err)
	}
	if spec.contentType != "" {
		req.Header.Set("Content-Type", spec.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	c.logger.Debug("api request",
		"id", requestID, "attempt", attempt, "method", spec.method, "path", spec.path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			"id", requestID, "method", spec.method, "path", spec.path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", spec.method, spec.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", spec.method, spec.path, err)
	}

	c.logger.Debug("api response",
		"id", requestID, "method", spec.method, "path", spec.path,
		"status", resp.StatusCode, "duration", time.Since(started).Round(time.Millisecond))

	if resp.StatusCode >= 400 {
		return nil, newStatusError(spec.method, spec.path, resp.StatusCode, data)
	}
	return data, nil
}

// finishFailure applies the once-per-failure side effects: credential
// clearing and the login hook on auth failures, and the user-facing notice
// for everything that is not a suppressed expected absence.
func (c *Client) finishFailure(ctx context.Context, spec requestSpec, err error) {
	if err == nil {
		return
	}
	if IsAuthFailure(err) {
		c.creds.Clear()
		c.logger.Info("authentication failure, credentials cleared",
			"method", spec.method, "path", spec.path)
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		// Auth failures redirect to login instead of showing a notice.
		return
	}
	if IsSuppressed(err) {
		c.logger.Debug("expected absence", "method", spec.method, "path", spec.path, "error", err)
		return
	}
	if c.notifier != nil {
		message := err.Error()
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			message = statusErr.UserMessage()
		}
		if notifyErr := c.notifier.NotifyError(ctx, errors.New(message), spec.method+" "+spec.path); notifyErr != nil {
			c.logger.Warn("surface error notice", "error", notifyErr)
		}
	}
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
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

func newStatusError(method, path string, status int, body []byte) *StatusError {
	statusErr := &StatusError{
		StatusCode: status,
		Method:     method,
		Path:       path,
		Body:       strings.TrimSpace(string(body)),
	}
	var parsed struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		statusErr.Detail = parsed.Detail
		statusErr.Message = parsed.Message
	}
	return statusErr
}

func decodeInto(method, path string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
