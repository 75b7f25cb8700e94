// Package architect wraps the hosted-LLM collaborator that turns a business
// problem description into a structured cloud-architecture recommendation.
// Only redacted text may be passed to Generate — raw input never crosses
// this boundary.
package architect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds parameters for the model call.
type Config struct {
	APIURL    string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

const systemPrompt = `You are a Google Cloud Solution Architect. Your goal is to help partners design scalable, secure, and cost-effective solutions. Always provide clear, technical, and professional advice.

Return ONLY valid JSON, no markdown fences, no commentary:
{"problemSummary":"<concise summary>","recommendedServices":[{"name":"<GCP service>","reason":"<why it fits>"}],"architectureOverview":"<high-level architecture and flow>","bestPractices":["<relevant practice>"],"notes":"<implementation notes and risks>"}`

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a model client. Zero MaxTokens and Timeout get
// sensible defaults.
func NewClient(cfg Config) *Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1200
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Generate sends the redacted problem description to the model and parses
// the structured recommendation. There is no streaming and no partial
// recovery: an unusable response is an error, surfaced to the caller.
func (c *Client) Generate(ctx context.Context, problem string) (*SolutionRecommendation, error) {
	user := fmt.Sprintf("Act as a senior Google Cloud Partner Solution Architect. Review the following business problem and design a robust GCP solution: %q", problem)

	body, _ := json.Marshal(map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": user},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": 0,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model HTTP %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(respBody)), 200))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Choices) == 0 {
		return nil, fmt.Errorf("empty response from AI engine")
	}

	return ParseSolution(result.Choices[0].Message.Content)
}
