// Package llm wraps the Gemini API behind a small text-in/text-out client.
// Every request carries the fixed sales-persona system instruction, a bounded
// output-token budget, a fixed sampling temperature, and a per-call timeout.
// Retry decisions live elsewhere; this package only performs single calls and
// reports failures with enough detail for classification.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// systemInstruction is the fixed persona sent with every request.
const systemInstruction = "You are an expert e-commerce content generator. " +
	"Generate high-quality, SEO-optimized product content."

// Request parameters, fixed across all calls.
const (
	defaultTemperature     = 0.7
	defaultMaxOutputTokens = 1000
	callTimeout            = 30 * time.Second
)

// Client is a Gemini-backed text generation client.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a Gemini client for the given API key. An empty model
// selects the configured default (see ModelName).
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if model == "" {
		model = ModelName()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Debug().Str("model", model).Msg("Gemini client initialized")
	return &Client{client: gc, model: model, timeout: callTimeout}, nil
}

// Model returns the model id this client sends requests to.
func (c *Client) Model() string {
	return c.model
}

// Raw exposes the underlying genai client for callers that need direct
// access, such as API key validation.
func (c *Client) Raw() *genai.Client {
	return c.client
}

// Generate sends one prompt to the model and returns the raw reply text.
// The call is bounded by the fixed per-call timeout regardless of the
// caller's context.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:     genai.Ptr[float32](defaultTemperature),
		MaxOutputTokens: defaultMaxOutputTokens,
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	duration := time.Since(start)
	if err != nil {
		log.Debug().Err(err).Dur("duration", duration).Str("model", c.model).
			Msg("Gemini API call failed")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("received empty response from Gemini API")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty content received from model")
	}

	log.Debug().
		Int("response_length", len(text)).
		Dur("duration", duration).
		Str("model", c.model).
		Msg("Gemini API response received")
	return text, nil
}
