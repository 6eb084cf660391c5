package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"careerpilot/internal/config"
)

// Client wraps the Gemini SDK behind a single-call text-completion surface.
// One instance is constructed at process start and shared by every caller;
// the underlying SDK client is safe for concurrent use.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Client{
		client:  client,
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

// Invoke sends one prompt and returns the model's raw text output untouched.
// It makes exactly one attempt; retry policy belongs to the caller. The call
// is bounded by the configured timeout on top of any caller deadline.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", mapGeminiError(err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Kind: FailureTransport, Err: errors.New("empty completion")}
	}
	return text, nil
}

func (c *Client) ModelID() string {
	return c.model
}

func mapGeminiError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &GenerationError{Kind: FailureTimeout, Err: err}
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return &GenerationError{Kind: FailureStatus, Status: apiErr.Code, Err: err}
	}
	return &GenerationError{Kind: FailureTransport, Err: err}
}
