// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"log/slog"
	"time"

	"brandshot/internal/models"
)

const (
	// DefaultMaxAttempts is how many times the full pipeline is tried.
	DefaultMaxAttempts = 3

	// DefaultBackoff is the base wait; attempt n waits n times this long.
	DefaultBackoff = time.Second
)

// Result is the outcome of one orchestrated generation. On failure only
// RawPrompt, Attempt, and Error are set.
type Result struct {
	Success         bool
	RawPrompt       string
	OptimizedPrompt string
	RevisedPrompt   string
	Image           []byte
	Metadata        Metadata
	Attempt         int
	Error           string
}

// Orchestrator runs optimize, generate, and fetch in sequence, restarting
// from optimization on any failure.
type Orchestrator struct {
	optimizer   *Optimizer
	generator   *Generator
	fetcher     *Fetcher
	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration

	// sleep waits between attempts; tests replace it.
	sleep func(ctx context.Context, d time.Duration)
}

// OrchestratorConfig tunes retries. Zero values take the defaults; Timeout
// of zero leaves provider calls without a deadline of their own.
type OrchestratorConfig struct {
	MaxAttempts int
	Backoff     time.Duration
	Timeout     time.Duration
}

// NewOrchestrator wires the three pipeline steps together.
func NewOrchestrator(o *Optimizer, g *Generator, f *Fetcher, cfg OrchestratorConfig) *Orchestrator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &Orchestrator{
		optimizer:   o,
		generator:   g,
		fetcher:     f,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		timeout:     cfg.Timeout,
		sleep:       sleepContext,
	}
}

// Optimizer returns the prompt optimizer used by each attempt.
func (o *Orchestrator) Optimizer() *Optimizer { return o.optimizer }

// Generator returns the image generator used by each attempt.
func (o *Orchestrator) Generator() *Generator { return o.generator }

// Run executes the pipeline up to MaxAttempts times. Attempt n (1-based)
// that fails is followed by a wait of n*Backoff unless it was the last.
func (o *Orchestrator) Run(ctx context.Context, rawPrompt string, gc Context, pinned []models.Reference, feedback string, refImages []models.ReferenceImage) *Result {
	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		res, err := o.attempt(ctx, rawPrompt, gc, pinned, feedback, refImages)
		if err == nil {
			res.Attempt = attempt
			return res
		}
		lastErr = err
		slog.Warn("generation attempt failed", "attempt", attempt, "max", o.maxAttempts, "error", err)

		if attempt < o.maxAttempts {
			o.sleep(ctx, o.backoff*time.Duration(attempt))
		}
	}

	return &Result{
		Success:   false,
		RawPrompt: rawPrompt,
		Attempt:   o.maxAttempts,
		Error:     lastErr.Error(),
	}
}

func (o *Orchestrator) attempt(ctx context.Context, rawPrompt string, gc Context, pinned []models.Reference, feedback string, refImages []models.ReferenceImage) (*Result, error) {
	var optimized string
	err := o.call(ctx, func(ctx context.Context) error {
		var err error
		optimized, err = o.optimizer.Optimize(ctx, rawPrompt, gc, pinned, feedback, refImages)
		return err
	})
	if err != nil {
		return nil, err
	}

	var img *Image
	err = o.call(ctx, func(ctx context.Context) error {
		var err error
		img, err = o.generator.Generate(ctx, optimized)
		return err
	})
	if err != nil {
		return nil, err
	}

	var data []byte
	err = o.call(ctx, func(ctx context.Context) error {
		var err error
		data, err = o.fetcher.Fetch(ctx, img.Locator)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:         true,
		RawPrompt:       rawPrompt,
		OptimizedPrompt: optimized,
		RevisedPrompt:   img.RevisedPrompt,
		Image:           data,
		Metadata:        img.Metadata,
	}, nil
}

// call runs fn under its own deadline when a timeout is configured.
func (o *Orchestrator) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if o.timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return fn(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
