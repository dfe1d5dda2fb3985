package instagram

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

	"cratepress/internal/services"
)

const (
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second

	maxCarouselImages = 10
)

// Config captures the runtime settings required to talk to the Graph API.
type Config struct {
	AccountID      string
	AccessToken    string
	BaseURL        string
	TimeoutSeconds int
}

// Client publishes posts through the Instagram Graph API.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
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

// WithRetryMaxAttempts overrides the default retry count.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs an Instagram client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.AccountID = strings.TrimSpace(cfg.AccountID)
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.AccountID == "" || cfg.AccessToken == "" {
		return nil, services.Wrap(services.ErrConfiguration, "instagram", "new", "account id and access token are required", nil)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com/v19.0"
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	client := &Client{
		cfg:              cfg,
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client, nil
}

// Publish creates a post from the supplied image URLs and caption and
// returns the published media id. A single image becomes a plain photo
// post; two or more become a carousel.
func (c *Client) Publish(ctx context.Context, imageURLs []string, caption string) (string, error) {
	urls := make([]string, 0, len(imageURLs))
	for _, u := range imageURLs {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	if len(urls) == 0 {
		return "", services.Wrap(services.ErrPrecondition, "instagram", "publish", "no image urls to publish", nil)
	}
	if len(urls) > maxCarouselImages {
		urls = urls[:maxCarouselImages]
	}

	var containerID string
	var err error
	if len(urls) == 1 {
		containerID, err = c.createContainer(ctx, url.Values{
			"image_url": {urls[0]},
			"caption":   {caption},
		})
	} else {
		containerID, err = c.createCarousel(ctx, urls, caption)
	}
	if err != nil {
		return "", err
	}

	return c.publishContainer(ctx, containerID)
}

func (c *Client) createCarousel(ctx context.Context, urls []string, caption string) (string, error) {
	children := make([]string, 0, len(urls))
	for _, imageURL := range urls {
		childID, err := c.createContainer(ctx, url.Values{
			"image_url":        {imageURL},
			"is_carousel_item": {"true"},
		})
		if err != nil {
			return "", err
		}
		children = append(children, childID)
	}

	return c.createContainer(ctx, url.Values{
		"media_type": {"CAROUSEL"},
		"children":   {strings.Join(children, ",")},
		"caption":    {caption},
	})
}

func (c *Client) createContainer(ctx context.Context, params url.Values) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/media", c.cfg.BaseURL, c.cfg.AccountID)
	return c.postForID(ctx, "create container", endpoint, params)
}

func (c *Client) publishContainer(ctx context.Context, containerID string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/media_publish", c.cfg.BaseURL, c.cfg.AccountID)
	return c.postForID(ctx, "publish container", endpoint, url.Values{
		"creation_id": {containerID},
	})
}

type graphResponse struct {
	ID    string      `json:"id"`
	Error *graphError `json:"error"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func (e *graphError) Error() string {
	return fmt.Sprintf("graph api error %d (%s): %s", e.Code, e.Type, e.Message)
}

func (c *Client) postForID(ctx context.Context, op, endpoint string, params url.Values) (string, error) {
	attempts := c.retryAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		id, err := c.postOnce(ctx, endpoint, params)
		if err == nil {
			return id, nil
		}
		lastErr = err

		if !retryable(err) || attempt == attempts {
			break
		}
		if sleepErr := c.sleep(ctx, c.backoff(attempt)); sleepErr != nil {
			return "", services.Wrap(services.ErrTransient, "instagram", op, "retry interrupted", sleepErr)
		}
	}

	return "", classify("instagram", op, lastErr)
}

func (c *Client) postOnce(ctx context.Context, endpoint string, params url.Values) (string, error) {
	form := url.Values{}
	for key, values := range params {
		form[key] = values
	}
	form.Set("access_token", c.cfg.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var decoded graphResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", &httpStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", &httpStatusError{StatusCode: resp.StatusCode, Body: decoded.Error.Message, GraphErr: decoded.Error}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", &httpStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if decoded.ID == "" {
		return "", errors.New("response missing id")
	}
	return decoded.ID, nil
}

type httpStatusError struct {
	StatusCode int
	Body       string
	GraphErr   *graphError
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("instagram request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func retryable(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if isAuthStatus(statusErr) {
			return false
		}
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Network level failures are worth one more try.
	return true
}

func isAuthStatus(err *httpStatusError) bool {
	if err.StatusCode == http.StatusUnauthorized || err.StatusCode == http.StatusForbidden {
		return true
	}
	return err.GraphErr != nil && err.GraphErr.Type == "OAuthException"
}

func classify(collaborator, op string, err error) error {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) && isAuthStatus(statusErr) {
		return services.Wrap(services.ErrAuth, collaborator, op, "authentication rejected", err)
	}
	return services.Wrap(services.ErrTransient, collaborator, op, "request failed", err)
}

func (c *Client) retryAttempts() int {
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.retryMaxDelay {
			return c.retryMaxDelay
		}
	}
	if delay > c.retryMaxDelay {
		return c.retryMaxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
