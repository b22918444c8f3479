// Package ai wraps the Gemini generateContent REST endpoint behind a small
// text-in, text-out client.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/agendify/backend/internal/domain/shared"
	"github.com/agendify/backend/internal/infrastructure/config"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// codeFenceOpen and codeFenceClose strip the markdown fences the model wraps
// around JSON output despite being asked not to.
var (
	codeFenceOpen  = regexp.MustCompile("```json\n?")
	codeFenceClose = regexp.MustCompile("\n?```")
)

// GeminiClient calls the Gemini generateContent API
type GeminiClient struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
}

// NewGeminiClient creates a new Gemini client. A missing API key is not an
// error here; requests fail with a configuration error instead, and the
// connection probe reports the missing key.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// HasAPIKey reports whether an API key is configured
func (c *GeminiClient) HasAPIKey() bool {
	return c.cfg.APIKey != ""
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.cfg.Model
}

// GenerateContent sends a single-turn prompt and returns the first candidate
// text. Temperature and maxTokens map directly onto the provider's
// generationConfig.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if !c.HasAPIKey() {
		return "", fmt.Errorf("%w: gemini API key is not configured", shared.ErrConfiguration)
	}

	reqBody := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to read response: %w", err)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini: failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Error != nil {
			return "", fmt.Errorf("%w: gemini: %d - %s", shared.ErrUpstream, resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("%w: gemini: HTTP %d", shared.ErrUpstream, resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini: response contains no candidates", shared.ErrUpstream)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// StripCodeFences removes markdown code fences around a JSON payload and
// trims surrounding whitespace.
func StripCodeFences(s string) string {
	s = codeFenceOpen.ReplaceAllString(s, "")
	s = codeFenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
