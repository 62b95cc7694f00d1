// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import "context"

// mistralProvider implements Provider using Mistral's chat completions API,
// which is OpenAI-compatible. Text only: Mistral has no image endpoint.
type mistralProvider struct {
	inner *openAIProvider
}

// newMistral creates a new Mistral provider.
func newMistral(cfg ProviderConfig) *mistralProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral-large-latest"
	}
	return &mistralProvider{inner: newOpenAICompatible("mistral", cfg)}
}

func (p *mistralProvider) Name() string { return "mistral" }

// Complete sends a chat completion request to Mistral.
func (p *mistralProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return p.inner.Complete(ctx, req)
}

// ListModels returns the ids of the Mistral models available to the key.
func (p *mistralProvider) ListModels(ctx context.Context) ([]string, error) {
	return p.inner.ListModels(ctx)
}
