package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	// DefaultModel matches the model the frontend was built against.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout bounds a single generation call. The upstream API has
	// no timeout of its own.
	DefaultTimeout = 60 * time.Second
)

// Client calls Gemini through its OpenAI-compatible chat completions
// surface. It implements Generator.
type Client struct {
	client  openai.Client
	model   string
	baseURL string
	timeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel overrides the default model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithBaseURL overrides the API endpoint. Intended for tests pointing at a
// local stub server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// NewClient creates a Gemini client. Returns a NotConfiguredError when the
// API key is empty, so wiring code can distinguish "disabled" from broken.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, &NotConfiguredError{Message: "gemini api key is not configured"}
	}

	c := &Client{
		model:   DefaultModel,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(c.baseURL),
	)

	return c, nil
}

// Model returns the model name the client targets.
func (c *Client) Model() string {
	return c.model
}

// Generate implements Generator. The assembled prompt already carries the
// persona and transcript, so it goes up as a single user message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: errEmptyResponse}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &GenerationError{Err: errEmptyResponse}
	}
	return text, nil
}
