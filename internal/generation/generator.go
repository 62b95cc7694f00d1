// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"log/slog"
	"time"

	"brandshot/internal/ai"
)

// Metadata describes how an image was produced.
type Metadata struct {
	Model     string    `json:"model"`
	Size      string    `json:"size"`
	Quality   string    `json:"quality"`
	Timestamp time.Time `json:"timestamp"`
	Demo      bool      `json:"demo,omitempty"`
}

// Image is a generated image not yet downloaded.
type Image struct {
	Locator       string
	RevisedPrompt string
	Metadata      Metadata
}

// ImageSettings are the provider parameters used for every image.
type ImageSettings struct {
	Model    string
	Size     string
	Quality  string
	DemoMode bool
}

// Generator produces one image per prompt through the image provider.
type Generator struct {
	images   ai.ImageGenerator
	settings ImageSettings
	now      func() time.Time
}

// NewGenerator creates a generator. Empty Size and Quality default to
// "1024x1024" and "standard".
func NewGenerator(images ai.ImageGenerator, settings ImageSettings) *Generator {
	if settings.Size == "" {
		settings.Size = "1024x1024"
	}
	if settings.Quality == "" {
		settings.Quality = "standard"
	}
	return &Generator{images: images, settings: settings, now: time.Now}
}

// Settings returns the generator's effective settings.
func (g *Generator) Settings() ImageSettings {
	return g.settings
}

// Generate requests exactly one image for prompt. In demo mode, rate-limit,
// bad-request, and quota failures yield a rendered placeholder instead.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Image, error) {
	res, err := g.images.GenerateImage(ctx, ai.ImageRequest{
		Prompt:  prompt,
		Model:   g.settings.Model,
		Size:    g.settings.Size,
		Quality: g.settings.Quality,
	})
	if err != nil {
		if g.settings.DemoMode && ai.IsDemoEligible(err) {
			slog.Warn("image generator using demo mode", "error", err)
			return DemoImage(prompt, g.settings.Size, g.now())
		}
		return nil, &StepError{Step: "image generation", Message: ai.Message(err), Err: err}
	}

	return &Image{
		Locator:       res.Locator,
		RevisedPrompt: res.RevisedPrompt,
		Metadata: Metadata{
			Model:     g.settings.Model,
			Size:      g.settings.Size,
			Quality:   g.settings.Quality,
			Timestamp: g.now().UTC(),
		},
	}, nil
}
