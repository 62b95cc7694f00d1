// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// openAIProvider implements Provider, ImageGenerator, and ModelLister on
// top of the go-openai client. Mistral reuses it for text since its API is
// OpenAI-compatible.
type openAIProvider struct {
	name       string
	client     *openai.Client
	model      string
	imageModel string
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = openai.CreateImageModelDallE3
	}
	return newOpenAICompatible("openai", cfg)
}

func newOpenAICompatible(name string, cfg ProviderConfig) *openAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.timeout()}

	return &openAIProvider{
		name:       name,
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
	}
}

func (p *openAIProvider) Name() string { return p.name }

// Complete sends a chat completion request and returns the assistant's
// response text.
func (p *openAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fromOpenAI(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests one image returned by URL.
func (p *openAIProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	model := req.Model
	if model == "" {
		model = p.imageModel
	}
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          model,
		N:              1,
		Size:           req.Size,
		Quality:        req.Quality,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fromOpenAI(p.name, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("%s: no image returned", p.name)
	}
	return &ImageResult{
		Locator:       resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

// ListModels returns the ids of the models visible to the API key.
func (p *openAIProvider) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, fromOpenAI(p.name, err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
