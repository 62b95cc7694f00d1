// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
)

// ImageRequest asks for exactly one image. Empty Model, Size, or Quality
// fall back to the provider's defaults.
type ImageRequest struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
}

// ImageResult locates the generated image. Locator is either a remote URL
// or an inline data: URI. RevisedPrompt is set when the provider rewrote
// the prompt.
type ImageResult struct {
	Locator       string
	RevisedPrompt string
}

// ImageGenerator is an optional interface that AI providers can implement
// to support image generation. Not all providers have this capability
// (Claude and Mistral are text-only).
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

// ImageProvider returns the active image provider.
func (r *Registry) ImageProvider() (ImageGenerator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.activeImage]
	if !ok {
		return nil, fmt.Errorf("ai: no image provider configured for %q", r.activeImage)
	}
	ig, ok := p.(ImageGenerator)
	if !ok {
		return nil, fmt.Errorf("ai: provider %q does not support image generation", p.Name())
	}
	return ig, nil
}

// GenerateImage calls the active image provider.
func (r *Registry) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	ig, err := r.ImageProvider()
	if err != nil {
		return nil, err
	}
	return ig.GenerateImage(ctx, req)
}

// SupportsImageGeneration returns true if an image provider is usable.
func (r *Registry) SupportsImageGeneration() bool {
	_, err := r.ImageProvider()
	return err == nil
}

// ActiveImageName returns the name of the active image provider.
func (r *Registry) ActiveImageName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activeImage
}
