package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// Message is one role-tagged prompt entry ("system", "user", "assistant").
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient is the single outbound model dependency of every service here.
type LLMClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// ChatCompletionClient talks to an OpenAI-compatible chat-completions endpoint.
// Every failure is retried with linearly growing delay (1x, 2x the base unit);
// after maxAttempts the last error is returned as-is.
type ChatCompletionClient struct {
	endpoint    string
	model       string
	apiKey      string
	httpClient  *http.Client
	maxAttempts int
	baseDelay   time.Duration
}

// NewChatCompletionClient builds a client from LLM_ENDPOINT, LLM_MODEL and
// LLM_API_KEY, with sensible development defaults for the first two.
func NewChatCompletionClient() *ChatCompletionClient {
	endpoint := os.Getenv("LLM_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://api.deepseek.com/v1/chat/completions"
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "deepseek-chat"
	}
	return &ChatCompletionClient{
		endpoint:    endpoint,
		model:       model,
		apiKey:      os.Getenv("LLM_API_KEY"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxAttempts: 3,
		baseDelay:   time.Second,
	}
}

// Complete sends the messages and returns the first choice's content.
func (c *ChatCompletionClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("LLM_API_KEY not configured")
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * c.baseDelay
			log.Printf("⚠️  LLM call failed (attempt %d/%d), retrying in %s: %v", attempt-1, c.maxAttempts, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		content, err := c.completeOnce(ctx, messages)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (c *ChatCompletionClient) completeOnce(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return parsed.Choices[0].Message.Content, nil
}
