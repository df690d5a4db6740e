package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sceneforge/internal/services"
)

const (
	defaultHTTPTimeout    = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 8 * time.Second
)

// NodeKind identifies the type of graph node a lookup targets.
type NodeKind string

const (
	NodeLocation  NodeKind = "location"
	NodeCharacter NodeKind = "character"
	NodeProp      NodeKind = "prop"
)

// Node is a typed knowledge-graph node with its property bag and any
// pre-existing reference imagery. Characters additionally carry per-angle
// image sets keyed by view name.
type Node struct {
	Kind            NodeKind            `json:"kind"`
	Name            string              `json:"name"`
	Properties      map[string]string   `json:"properties"`
	ReferenceImages []string            `json:"reference_images"`
	AngleImages     map[string][]string `json:"angle_images"`
}

// VerifyRequest describes a structured composite-verification query sent to
// the graph's multimodal reasoning endpoint.
type VerifyRequest struct {
	ImageURL     string `json:"image_url"`
	Requirement  string `json:"requirement"`
	SceneContext string `json:"scene_context"`
}

// Config captures the runtime settings required to talk to the knowledge graph.
type Config struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
	RetryAttempts  int
}

// Client wraps the knowledge-graph HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryAttempts  int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	sleeper        func(time.Duration)
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

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a knowledge-graph client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	attempts := defaultRetryAttempts
	if cfg.RetryAttempts > 0 {
		attempts = cfg.RetryAttempts
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			TimeoutSeconds: cfg.TimeoutSeconds,
			RetryAttempts:  cfg.RetryAttempts,
		},
		httpClient:     &http.Client{Timeout: timeout},
		retryAttempts:  attempts,
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
		sleeper:        time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type nodeQueryRequest struct {
	Kind NodeKind `json:"kind"`
	Name string   `json:"name"`
}

type nodeQueryResponse struct {
	Found bool  `json:"found"`
	Node  *Node `json:"node"`
}

// QueryNode looks up a single node by kind and name. A node that does not
// resolve returns (nil, nil) rather than an error; planners decide what an
// unresolvable element means.
func (c *Client) QueryNode(ctx context.Context, kind NodeKind, name string) (*Node, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("knowledge query: name required")
	}

	body, err := c.postWithRetry(ctx, "/graph/query", nodeQueryRequest{Kind: kind, Name: name})
	if err != nil {
		return nil, fmt.Errorf("knowledge query %s %q: %w", kind, name, err)
	}

	var parsed nodeQueryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("knowledge query %s %q: parse response: %w", kind, name, err)
	}
	if !parsed.Found || parsed.Node == nil {
		return nil, nil
	}
	if parsed.Node.Kind == "" {
		parsed.Node.Kind = kind
	}
	return parsed.Node, nil
}

// VerifyComposite issues a structured verification query against the graph's
// multimodal reasoning endpoint and returns the raw response payload. Score
// extraction is the caller's concern because providers disagree on shape.
func (c *Client) VerifyComposite(ctx context.Context, req VerifyRequest) (string, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return "", errors.New("knowledge verify: image url required")
	}
	if strings.TrimSpace(req.Requirement) == "" {
		return "", errors.New("knowledge verify: requirement required")
	}
	body, err := c.postWithRetry(ctx, "/reason/verify", req)
	if err != nil {
		return "", fmt.Errorf("knowledge verify: %w", err)
	}
	return string(body), nil
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("knowledge request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *Client) postWithRetry(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.cfg.BaseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, services.PhaseNone, "knowledge client", "base url not configured", nil)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	delay := c.retryBaseDelay
	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			c.sleeper(delay)
			if next := delay * 2; next <= c.retryMaxDelay {
				delay = next
			}
		}
		body, err := c.post(ctx, path, encoded)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) post(ctx context.Context, path string, encoded []byte) ([]byte, error) {
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
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if readErr != nil {
		return nil, fmt.Errorf("read response: %w", readErr)
	}
	return body, nil
}

func isRetryable(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func correlationID(ctx context.Context) string {
	if id, ok := services.CorrelationIDFromContext(ctx); ok {
		return id
	}
	return uuid.NewString()
}
