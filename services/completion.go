package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultCompletionURL   = "https://api.openai.com/v1/chat/completions"
	defaultCompletionModel = "gpt-4o-mini"
	completionTimeout      = 30 * time.Second
)

// ChatTurn is one role-tagged message in a conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionClient talks to the external chat-completion API. Responses are
// buffered, not streamed, and each call is a single attempt.
type CompletionClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type completionRequest struct {
	Model    string     `json:"model"`
	Messages []ChatTurn `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message ChatTurn `json:"message"`
	} `json:"choices"`
}

type completionError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewCompletionClient builds a client from the environment. COMPLETION_API_URL
// and COMPLETION_MODEL override the defaults; COMPLETION_API_KEY is required
// at first use.
func NewCompletionClient() *CompletionClient {
	baseURL := os.Getenv("COMPLETION_API_URL")
	if baseURL == "" {
		baseURL = defaultCompletionURL
	}
	model := os.Getenv("COMPLETION_MODEL")
	if model == "" {
		model = defaultCompletionModel
	}
	return &CompletionClient{
		apiKey:  os.Getenv("COMPLETION_API_KEY"),
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: completionTimeout},
	}
}

// Complete sends the full message sequence and returns the generated reply
// text. An empty string with a nil error means the upstream produced no
// content; the caller decides what to substitute.
func (c *CompletionClient) Complete(ctx context.Context, messages []ChatTurn) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("COMPLETION_API_KEY not set")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}

	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr completionError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("completion API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("completion API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var completion completionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
