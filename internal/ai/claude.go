// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"
)

// claudeProvider implements Provider using the Anthropic Messages API
// (POST /v1/messages). Text only.
type claudeProvider struct {
	config ProviderConfig
	client *http.Client
}

// newClaude creates a new Anthropic Claude provider.
func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	return &claudeProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.timeout()},
	}
}

func (p *claudeProvider) Name() string { return "claude" }

func (p *claudeProvider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.config.APIKey,
		"anthropic-version": "2023-06-01",
	}
}

// Complete sends a message to the Anthropic Messages API.
func (p *claudeProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	body := claudeRequest{
		Model:       p.config.Model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages: []claudeMessage{
			{Role: "user", Content: req.User},
		},
	}

	var result claudeResponse
	if err := doJSON(ctx, p.client, "claude", http.MethodPost, p.config.BaseURL+"/v1/messages", p.headers(), body, &result); err != nil {
		return "", err
	}

	// Extract text from the first content block.
	for _, block := range result.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("claude: no text content in response")
}

// ListModels returns the model ids available to the key.
func (p *claudeProvider) ListModels(ctx context.Context) ([]string, error) {
	var result claudeModelList
	if err := doJSON(ctx, p.client, "claude", http.MethodGet, p.config.BaseURL+"/v1/models", p.headers(), nil, &result); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Data))
	for _, m := range result.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// --- Anthropic Messages API types ---

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float32         `json:"temperature,omitempty"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content []claudeContentBlock `json:"content"`
}

type claudeModelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}
