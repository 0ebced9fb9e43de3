// Package gemini implements the narrative provider on Google's Gemini API.
// The official SDK is the primary path; a direct REST call covers the case
// where the SDK rejects the configured model name as unknown.
package gemini

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

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/resume"
)

const defaultRESTBase = "https://generativelanguage.googleapis.com/v1beta"

const providerName = "gemini"

// Client implements llm.Narrator.
type Client struct {
	apiKey     string
	model      string
	restBase   string
	httpClient *http.Client

	// generate is the SDK path, swappable in tests.
	generate func(ctx context.Context, prompt string) (string, error)
}

// NewClient constructs a narrative client. Like the scoring provider, a
// missing key is reported at call time rather than at startup.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	c := &Client{
		apiKey:   apiKey,
		model:    model,
		restBase: defaultRESTBase,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	c.generate = c.generateSDK
	return c
}

// SetRESTBase overrides the REST fallback base URL. Used by tests.
func (c *Client) SetRESTBase(url string) { c.restBase = url }

// Analyze renders the narrative prompt and calls Gemini. The SDK is tried
// first; if it fails because the model route is unknown, one REST attempt is
// made against the generateContent endpoint. A failed fallback surfaces the
// fallback's error, not the SDK's.
func (c *Client) Analyze(ctx context.Context, r resume.Resume) (llm.NarrativeResult, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return llm.NarrativeResult{}, fmt.Errorf("gemini: %w", llm.ErrMissingCredential)
	}

	prompt := llm.NarrativePrompt(r)

	content, err := c.generate(ctx, prompt)
	if err != nil {
		if !isModelNotFound(err) {
			return llm.NarrativeResult{}, &llm.ProviderError{Provider: providerName, Err: err}
		}
		content, err = c.generateREST(ctx, prompt)
		if err != nil {
			return llm.NarrativeResult{}, &llm.ProviderError{Provider: providerName, Err: err}
		}
	}

	result, err := llm.ParseNarrativeResult(content)
	if err != nil {
		return llm.NarrativeResult{}, &llm.ProviderError{Provider: providerName, Err: err}
	}
	return result, nil
}

// isModelNotFound reports whether the SDK failure looks like an unknown model
// route, the one condition worth retrying over plain REST.
func isModelNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "not found")
}

func (c *Client) generateSDK(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("sdk client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return extractText(resp)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}

type restRequest struct {
	Contents []restContent `json:"contents"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text string `json:"text"`
}

type restResponse struct {
	Candidates []struct {
		Content *restContent `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generateREST(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(restRequest{
		Contents: []restContent{{Parts: []restPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.restBase, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("rest call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rest api error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed restResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("rest response parse: %w", err)
	}
	if len(parsed.Candidates) == 0 || parsed.Candidates[0].Content == nil ||
		len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("rest response missing candidates")
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

var _ llm.Narrator = (*Client)(nil)
