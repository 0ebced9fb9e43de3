// Package deepseek implements the scoring provider over OpenRouter's
// OpenAI-compatible chat completions endpoint.
package deepseek

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

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/resume"
)

const defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

const providerName = "deepseek"

// Client implements llm.Scorer using a DeepSeek model served by OpenRouter.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	referer    string
	httpClient *http.Client
}

// NewClient constructs a scoring client. An empty apiKey is allowed here and
// rejected at call time, so a half-configured deployment still boots and
// reports the missing credential per request.
func NewClient(apiKey, model, referer string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		referer: referer,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBaseURL overrides the completions endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze renders the scoring prompt, calls the completions endpoint, and
// parses the model output into a ScoreResult.
func (c *Client) Analyze(ctx context.Context, r resume.Resume) (llm.ScoreResult, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return llm.ScoreResult{}, fmt.Errorf("deepseek: %w", llm.ErrMissingCredential)
	}

	content, err := c.complete(ctx, llm.ScorePrompt(r))
	if err != nil {
		return llm.ScoreResult{}, &llm.ProviderError{Provider: providerName, Err: err}
	}

	result, err := llm.ParseScoreResult(content)
	if err != nil {
		return llm.ScoreResult{}, &llm.ProviderError{Provider: providerName, Err: err}
	}
	return result, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	req.Header.Set("X-Title", "AI Resume Analyzer")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("response empty content")
	}
	return content, nil
}

var _ llm.Scorer = (*Client)(nil)
