// Package openai is a minimal chat-completions client. The food
// assistant is its only consumer, so it exposes exactly the call shape
// the assistant needs: a message list in, the reply text out.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/httpx"
	"github.com/swipebite/backend/internal/logger"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 500
	maxAttempts     = 3
	retryBackoff    = time.Second
)

// RoleSystem, RoleUser and RoleAssistant are the chat roles the API
// accepts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat-completions payload.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// APIError is a failed chat-completions call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("openai: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("openai: status %d", e.Status)
}

// HTTPStatusCode implements httpx.StatusCoder.
func (e *APIError) HTTPStatusCode() int {
	return e.Status
}

// Client calls the OpenAI chat-completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client
	log     *logger.Logger
	backoff time.Duration
}

// New creates a Client from configuration. An empty API key yields a
// client that reports itself unconfigured; the assistant answers with a
// canned message instead of calling out in that case.
func New(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		apiKey:  cfg.OpenAIAPIKey,
		baseURL: strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		model:   cfg.OpenAIModel,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		log:     log,
		backoff: retryBackoff,
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// ChatCompletion sends the conversation and returns the assistant's
// reply. Rate limits and server errors are retried with backoff,
// honoring Retry-After when the API provides one.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("openai: API key not configured")
	}

	reqBody := Request{
		Model:       c.model,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	delay := c.backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		content, retryAfter, err := c.doOnce(ctx, jsonData)
		if err == nil {
			return content, nil
		}

		lastErr = err
		if !httpx.IsRetryableError(err) || attempt == maxAttempts {
			break
		}

		wait := delay
		if retryAfter > 0 {
			wait = retryAfter
		}
		c.log.Warnw("openai request failed, retrying",
			"attempt", attempt,
			"model", c.model,
			"error", err)
		httpx.JitterSleep(wait)
		delay *= 2

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (c *Client) doOnce(ctx context.Context, jsonData []byte) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryAfter := httpx.RetryAfterDuration(resp, 30*time.Second)
		return "", retryAfter, &APIError{Status: resp.StatusCode, Message: apiMessage(body)}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", 0, fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, 0, nil
}

func apiMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error.Message
}
