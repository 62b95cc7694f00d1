// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for the external text-completion
// and image-generation providers (OpenAI, Gemini, Claude, Mistral). Each
// provider implements Provider; image-capable ones also implement
// ImageGenerator. The Registry selects the active provider for each role.
package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// CompletionRequest is a single system + user exchange.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Provider defines the interface that all text providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Complete sends the exchange to the model and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ModelLister is implemented by providers that can enumerate their models.
// It backs the connectivity probe.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey     string
	Model      string
	ImageModel string
	BaseURL    string
	Timeout    time.Duration
}

func (c ProviderConfig) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 60 * time.Second
}

// Registry manages available AI providers and selects the active text and
// image providers. All methods are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]Provider
	active      string
	activeImage string
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped.
// active names the text provider; activeImage the image provider.
func NewRegistry(active, activeImage string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers:   make(map[string]Provider),
		active:      active,
		activeImage: activeImage,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "claude":
			r.providers[name] = newClaude(cfg)
		case "mistral":
			r.providers[name] = newMistral(cfg)
		}
	}

	return r
}

// Complete calls the active text provider.
func (r *Registry) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Complete(ctx, req)
}

// ListModels lists the active text provider's models.
func (r *Registry) ListModels(ctx context.Context) ([]string, error) {
	p, err := r.Active()
	if err != nil {
		return nil, err
	}
	ml, ok := p.(ModelLister)
	if !ok {
		return nil, fmt.Errorf("ai: provider %q cannot list models", p.Name())
	}
	return ml.ListModels(ctx)
}

// Active returns the currently active text provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active text provider at runtime. Returns an error
// if the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active text provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all providers that have API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a provider in the registry. This allows injecting
// custom providers at runtime (e.g. for testing or plugin-based providers).
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}
