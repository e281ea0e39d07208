// Package gemini is a minimal client for the Gemini generateContent API.
package gemini

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

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"
)

// Harm categories the API accepts safety settings for.
const (
	HarmDangerousContent = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmHateSpeech       = "HARM_CATEGORY_HATE_SPEECH"
	HarmHarassment       = "HARM_CATEGORY_HARASSMENT"
	HarmSexuallyExplicit = "HARM_CATEGORY_SEXUALLY_EXPLICIT"

	BlockNone = "BLOCK_NONE"
)

// SafetySetting sets the blocking threshold for one harm category.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// PermissiveSafety disables blocking for every harm category.
func PermissiveSafety() []SafetySetting {
	return []SafetySetting{
		{Category: HarmDangerousContent, Threshold: BlockNone},
		{Category: HarmHateSpeech, Threshold: BlockNone},
		{Category: HarmHarassment, Threshold: BlockNone},
		{Category: HarmSexuallyExplicit, Threshold: BlockNone},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents       []content       `json:"contents"`
	SafetySettings []SafetySetting `json:"safetySettings,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Config configures a Client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Safety  []SafetySetting // nil means PermissiveSafety
}

// Client calls generateContent for a single model.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	safety  []SafetySetting
	client  *http.Client
}

// New creates a client. The API key is required.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Safety == nil {
		cfg.Safety = PermissiveSafety()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		safety:  cfg.Safety,
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string { return c.model }

// Generate sends prompt as a single user turn and returns the response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:       []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		SafetySettings: c.safety,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gemini error %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked prompt: %s", result.PromptFeedback.BlockReason)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
