package vision

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

	"github.com/google/uuid"

	"sceneforge/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// Config captures the runtime settings for the vision-language query service.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// Client wraps the vision-language HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
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

// NewClient constructs a vision-language client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type askRequest struct {
	Model    string `json:"model,omitempty"`
	ImageURL string `json:"image_url"`
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask poses a natural-language question about an image and returns the
// model's free-text answer.
func (c *Client) Ask(ctx context.Context, imageURL, question string) (string, error) {
	if c.cfg.BaseURL == "" {
		return "", services.Wrap(services.ErrConfiguration, services.PhaseNone, "vision client", "base url not configured", nil)
	}
	if strings.TrimSpace(imageURL) == "" {
		return "", errors.New("vision ask: image url required")
	}
	if strings.TrimSpace(question) == "" {
		return "", errors.New("vision ask: question required")
	}

	encoded, err := json.Marshal(askRequest{Model: c.cfg.Model, ImageURL: imageURL, Question: question})
	if err != nil {
		return "", fmt.Errorf("vision ask: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/ask", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("vision ask: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("X-Request-ID", correlationID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision ask: http request: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision ask: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if readErr != nil {
		return "", fmt.Errorf("vision ask: read response: %w", readErr)
	}

	var parsed askResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("vision ask: parse response: %w", err)
	}
	if strings.TrimSpace(parsed.Answer) == "" {
		return "", errors.New("vision ask: response carried no answer")
	}
	return parsed.Answer, nil
}

func correlationID(ctx context.Context) string {
	if id, ok := services.CorrelationIDFromContext(ctx); ok {
		return id
	}
	return uuid.NewString()
}
