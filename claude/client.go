// Package claude forwards prompts to the Anthropic Messages API with the
// server-held API key and relays the raw response.
package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"penbridge/apierr"
	"penbridge/upstream"
)

const (
	// DefaultBaseURL is the public Anthropic API endpoint
	DefaultBaseURL = "https://api.anthropic.com"

	// APIVersion is sent as the anthropic-version header
	APIVersion = "2023-06-01"
)

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type Client struct {
	config Config
	api    *upstream.Client
	logger *zap.Logger
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

func NewClient(cfg Config, api *upstream.Client, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: cfg,
		api:    api,
		logger: logger.Named("claude"),
	}
}

// Complete sends a single-turn conversation and returns the upstream JSON
// body untouched.
func (c *Client) Complete(ctx context.Context, prompt, systemPrompt string) (json.RawMessage, error) {
	if c.config.APIKey == "" {
		return nil, apierr.New(http.StatusInternalServerError, "Chat service is not configured")
	}
	if prompt == "" {
		return nil, apierr.BadRequest("Prompt is required")
	}

	header := make(http.Header)
	header.Set("x-api-key", c.config.APIKey)
	header.Set("anthropic-version", APIVersion)

	res := c.api.Send(ctx, upstream.Request{
		Method: http.MethodPost,
		URL:    strings.TrimSuffix(c.config.BaseURL, "/") + "/v1/messages",
		Header: header,
		Body: upstream.JSONBody(messagesRequest{
			Model:     c.config.Model,
			MaxTokens: c.config.MaxTokens,
			System:    systemPrompt,
			Messages:  []message{{Role: "user", Content: prompt}},
		}),
	})
	if !res.OK {
		return nil, res.Err()
	}

	c.logger.Debug("completion relayed", zap.String("model", c.config.Model), zap.Int("bytes", len(res.Body)))
	return res.Body, nil
}
