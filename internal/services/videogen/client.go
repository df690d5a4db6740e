package videogen

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

// Config captures the runtime settings for the video-generation service.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	FPS            int
	Resolution     string
	TimeoutSeconds int
}

// Request describes one image-to-video synthesis call.
type Request struct {
	ImageURL        string
	Prompt          string
	DurationSeconds float64
	FPS             int
	Resolution      string
	MotionStrength  float64
}

// Result is the payload returned by a successful synthesis.
type Result struct {
	VideoURL        string  `json:"video_url"`
	DurationSeconds float64 `json:"duration"`
	FPS             int     `json:"fps"`
	Resolution      string  `json:"resolution"`
}

// Client wraps the video-generation and frame-extraction HTTP API.
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

// NewClient constructs a video-generation client.
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
			FPS:            cfg.FPS,
			Resolution:     strings.TrimSpace(cfg.Resolution),
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
	Model          string  `json:"model,omitempty"`
	ImageURL       string  `json:"image_url"`
	Prompt         string  `json:"prompt"`
	Duration       float64 `json:"duration"`
	FPS            int     `json:"fps"`
	Resolution     string  `json:"resolution"`
	MotionStrength float64 `json:"motion_strength"`
}

// Generate synthesizes a clip from a still image.
func (c *Client) Generate(ctx context.Context, req Request) (Result, error) {
	var empty Result
	if strings.TrimSpace(req.ImageURL) == "" {
		return empty, errors.New("video generate: image url required")
	}
	fps := req.FPS
	if fps <= 0 {
		fps = c.cfg.FPS
	}
	resolution := req.Resolution
	if resolution == "" {
		resolution = c.cfg.Resolution
	}
	payload := generateRequest{
		Model:          c.cfg.Model,
		ImageURL:       req.ImageURL,
		Prompt:         req.Prompt,
		Duration:       req.DurationSeconds,
		FPS:            fps,
		Resolution:     resolution,
		MotionStrength: req.MotionStrength,
	}

	body, err := c.post(ctx, "/generate", payload)
	if err != nil {
		return empty, fmt.Errorf("video generate: %w", err)
	}

	var parsed Result
	if err := json.Unmarshal(body, &parsed); err != nil {
		return empty, fmt.Errorf("video generate: parse response: %w", err)
	}
	if strings.TrimSpace(parsed.VideoURL) == "" {
		return empty, errors.New("video generate: response carried no video payload")
	}
	if parsed.DurationSeconds <= 0 {
		parsed.DurationSeconds = req.DurationSeconds
	}
	if parsed.FPS <= 0 {
		parsed.FPS = fps
	}
	if parsed.Resolution == "" {
		parsed.Resolution = resolution
	}
	return parsed, nil
}

type extractFrameRequest struct {
	VideoURL  string  `json:"video_url"`
	Timestamp float64 `json:"timestamp"`
}

type extractFrameResponse struct {
	FrameURL string `json:"frame_url"`
}

// ExtractFrame grabs a still frame from a generated clip at the supplied
// timestamp in seconds.
func (c *Client) ExtractFrame(ctx context.Context, videoURL string, timestamp float64) (string, error) {
	if strings.TrimSpace(videoURL) == "" {
		return "", errors.New("frame extract: video url required")
	}
	if timestamp < 0 {
		timestamp = 0
	}

	body, err := c.post(ctx, "/frames/extract", extractFrameRequest{VideoURL: videoURL, Timestamp: timestamp})
	if err != nil {
		return "", fmt.Errorf("frame extract: %w", err)
	}

	var parsed extractFrameResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("frame extract: parse response: %w", err)
	}
	if strings.TrimSpace(parsed.FrameURL) == "" {
		return "", errors.New("frame extract: response carried no frame url")
	}
	return parsed.FrameURL, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.cfg.BaseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, services.PhaseNone, "videogen client", "base url not configured", nil)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("X-Request-ID", correlationID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if readErr != nil {
		return nil, fmt.Errorf("read response: %w", readErr)
	}
	return body, nil
}

func correlationID(ctx context.Context) string {
	if id, ok := services.CorrelationIDFromContext(ctx); ok {
		return id
	}
	return uuid.NewString()
}
