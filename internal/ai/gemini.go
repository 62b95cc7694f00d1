// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// geminiProvider implements Provider, ImageGenerator, and ModelLister using
// the Google Gemini REST API (POST /v1beta/models/{model}:generateContent).
type geminiProvider struct {
	config ProviderConfig
	client *http.Client
}

// newGemini creates a new Google Gemini provider.
func newGemini(cfg ProviderConfig) *geminiProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return &geminiProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.timeout()},
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) headers() map[string]string {
	return map[string]string{"x-goog-api-key": p.config.APIKey}
}

// Complete sends a generateContent request using the default model.
func (p *geminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: req.User}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.config.BaseURL, p.config.Model)

	var result geminiResponse
	if err := doJSON(ctx, p.client, "gemini", http.MethodPost, url, p.headers(), body, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	// Extract text from the first candidate's parts.
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}

	return "", fmt.Errorf("gemini: no text in response")
}

// GenerateImage creates an image with responseModalities set to IMAGE. The
// image arrives inline, so the locator is a data: URI.
func (p *geminiProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	model := req.Model
	if model == "" {
		model = p.config.ImageModel
	}
	if model == "" {
		return nil, fmt.Errorf("gemini: image generation requires GEMINI_IMAGE_MODEL to be set")
	}

	prompt := "Generate an image of: " + req.Prompt
	if req.Size != "" {
		prompt += " (target size " + req.Size + ")"
	}
	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.config.BaseURL, model)

	var result geminiResponse
	if err := doJSON(ctx, p.client, "gemini", http.MethodPost, url, p.headers(), body, &result); err != nil {
		return nil, err
	}

	// Extract the image data from the response parts; any text part is
	// treated as the model's rewording of the prompt.
	var revised string
	for _, c := range result.Candidates {
		for _, part := range c.Content.Parts {
			if part.Text != "" && revised == "" {
				revised = strings.TrimSpace(part.Text)
			}
			if part.InlineData != nil && part.InlineData.Data != "" {
				mimeType := part.InlineData.MimeType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return &ImageResult{
					Locator:       "data:" + mimeType + ";base64," + part.InlineData.Data,
					RevisedPrompt: revised,
				}, nil
			}
		}
	}

	return nil, fmt.Errorf("gemini image: no image data in response")
}

// ListModels returns the model ids available to the key.
func (p *geminiProvider) ListModels(ctx context.Context) ([]string, error) {
	var result geminiModelList
	url := p.config.BaseURL + "/v1beta/models"
	if err := doJSON(ctx, p.client, "gemini", http.MethodGet, url, p.headers(), nil, &result); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		ids = append(ids, strings.TrimPrefix(m.Name, "models/"))
	}
	return ids, nil
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens    int      `json:"maxOutputTokens,omitempty"`
	Temperature        float32  `json:"temperature,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiModelList struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}
