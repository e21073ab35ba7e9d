package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tailored-agentic-units/brainstorm/config"
	"github.com/tailored-agentic-units/brainstorm/prompts"
)

// ChatCompletion is an OpenAI-compatible chat completion client implementing
// both TextCompletion and StructuredCompletion. Prompts are rendered through
// the prompts registry before dispatch.
type ChatCompletion struct {
	client      *http.Client
	baseURL     string
	model       string
	apiKey      string
	temperature float64
}

// NewChatCompletion creates a client from configuration. The API key is
// read from the environment variable named in cfg.APIKeyEnv and never
// stored in config files.
func NewChatCompletion(cfg config.CompletionConfig) (*ChatCompletion, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("completion base_url is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("completion model is required")
	}

	return &ChatCompletion{
		client:      &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		apiKey:      os.Getenv(cfg.APIKeyEnv),
		temperature: cfg.Temperature,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete renders the template and returns the model's reply text.
func (c *ChatCompletion) Complete(ctx context.Context, templateID string, vars map[string]string) (string, error) {
	prompt, err := prompts.Render(templateID, vars)
	if err != nil {
		return "", NewError(FailureCompletion, "completion.render", err)
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", NewError(FailureCompletion, "completion.marshal", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", NewError(FailureCompletion, "completion.request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", NewError(FailureCompletion, "completion.transport", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", NewError(FailureRateLimit, "completion.transport",
			fmt.Errorf("rate limited: %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", NewError(FailureCompletion, "completion.transport",
			fmt.Errorf("unexpected status %s: %s", resp.Status, data))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", NewError(FailureCompletion, "completion.decode", err)
	}
	if len(parsed.Choices) == 0 {
		return "", NewError(FailureCompletion, "completion.decode",
			fmt.Errorf("response carried no choices"))
	}

	return parsed.Choices[0].Message.Content, nil
}

// CompleteInto runs Complete and decodes the reply into out. Models often
// wrap JSON in a fenced block despite instructions, so a leading fence is
// stripped before decoding. A reply that does not decode fails with
// FailureSchemaValidation.
func (c *ChatCompletion) CompleteInto(ctx context.Context, templateID string, vars map[string]string, out any) error {
	text, err := c.Complete(ctx, templateID, vars)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(stripFence(text)), out); err != nil {
		return NewError(FailureSchemaValidation, "completion.schema", err)
	}
	return nil
}

func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
