// Package genai talks to the Gemini API to turn a free-text description into
// a form definition. Its output is untrusted and must go through
// schema.Parse before anything is stored.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/formforge/quickform/config"
)

// ErrRateLimited marks an upstream 429, worth retrying after a pause.
var ErrRateLimited = errors.New("generation service rate limited")

// ErrNotConfigured is returned when no API key was provided at startup.
var ErrNotConfigured = errors.New("generation service not configured")

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		apiKey:  cfg.GeminiKey,
		model:   cfg.GeminiModel,
		baseURL: strings.TrimSuffix(cfg.GeminiURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateForm asks the model for a form definition matching the description
// and returns the raw JSON text it produced.
func (c *Client) GenerateForm(ctx context.Context, description string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: description + " " + formPrompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      1,
			TopP:             0.95,
			TopK:             40,
			MaxOutputTokens:  8192,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service: status %d", resp.StatusCode)
	}

	var payload generateResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("generation response: %w", err)
	}
	if len(payload.Candidates) == 0 {
		return "", errors.New("generation response: no candidates")
	}

	var text strings.Builder
	for _, p := range payload.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", errors.New("generation response: empty content")
	}
	return text.String(), nil
}
