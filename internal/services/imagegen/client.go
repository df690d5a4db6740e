package imagegen

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

const defaultHTTPTimeout = 120 * time.Second

// MaxReferenceImages is the hard limit the generation backend accepts per request.
const MaxReferenceImages = 3

// Config captures the runtime settings for the image-generation service.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// Request describes one image-generation call. EditBase, when set, supplies a
// prior image the backend edits instead of generating from scratch.
type Request struct {
	Prompt     string
	References []string
	EditBase   string
}

// Client wraps the image-generation HTTP API.
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

// NewClient constructs an image-generation client.
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

type generateRequest struct {
	Model           string   `json:"model,omitempty"`
	Prompt          string   `json:"prompt"`
	ReferenceImages []string `json:"reference_images,omitempty"`
	EditBaseImage   string   `json:"edit_base_image,omitempty"`
}

type generateResponse struct {
	ImageURL string `json:"image_url"`
}

// Generate produces a candidate image and returns its URL.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.cfg.BaseURL == "" {
		return "", services.Wrap(services.ErrConfiguration, services.PhaseNone, "imagegen client", "base url not configured", nil)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", errors.New("image generate: prompt required")
	}
	if len(req.References) > MaxReferenceImages {
		return "", fmt.Errorf("image generate: at most %d reference images supported, got %d", MaxReferenceImages, len(req.References))
	}

	payload := generateRequest{
		Model:           c.cfg.Model,
		Prompt:          req.Prompt,
		ReferenceImages: req.References,
		EditBaseImage:   req.EditBase,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("image generate: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/generate", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("image generate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	httpReq.Header.Set("X-Request-ID", correlationID(ctx))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("image generate: http request: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image generate: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if readErr != nil {
		return "", fmt.Errorf("image generate: read response: %w", readErr)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("image generate: parse response: %w", err)
	}
	if strings.TrimSpace(parsed.ImageURL) == "" {
		return "", errors.New("image generate: response carried no image url")
	}
	return parsed.ImageURL, nil
}

func correlationID(ctx context.Context) string {
	if id, ok := services.CorrelationIDFromContext(ctx); ok {
		return id
	}
	return uuid.NewString()
}
