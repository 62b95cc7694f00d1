// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"brandshot/internal/imaging"
	"brandshot/internal/models"
	"brandshot/internal/store"
)

// Outcome is what a generate call reports back to the caller.
type Outcome struct {
	Success         bool                 `json:"success"`
	RequestID       string               `json:"requestId"`
	Status          models.RequestStatus `json:"status"`
	RawPrompt       string               `json:"rawPrompt"`
	OptimizedPrompt string               `json:"optimizedPrompt,omitempty"`
	RevisedPrompt   string               `json:"revisedPrompt,omitempty"`
	ImagePath       string               `json:"imagePath,omitempty"`
	LogPath         string               `json:"logPath,omitempty"`
	Metadata        *Metadata            `json:"metadata,omitempty"`
	Attempt         int                  `json:"attempt"`
	Error           string               `json:"error,omitempty"`
}

// Service is the entry point the HTTP layer uses to generate images and
// preview optimized prompts for stored requests.
type Service struct {
	projects     *store.ProjectStore
	campaigns    *store.CampaignStore
	requests     *store.RequestStore
	references   *store.ReferenceStore
	assets       *store.AssetStore
	orchestrator *Orchestrator
	now          func() time.Time
}

// NewService creates a generation service.
func NewService(projects *store.ProjectStore, campaigns *store.CampaignStore, requests *store.RequestStore,
	references *store.ReferenceStore, assets *store.AssetStore, orchestrator *Orchestrator) *Service {
	return &Service{
		projects:     projects,
		campaigns:    campaigns,
		requests:     requests,
		references:   references,
		assets:       assets,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// inputs is everything a generation or preview needs, loaded up front.
type inputs struct {
	project      *models.Project
	campaign     *models.Campaign
	request      *models.Request
	campaignRefs []models.Reference
}

// load fetches the project, campaign, campaign references, and (when id is
// not nil) the request concurrently. Any missing document is ErrNotFound.
func (s *Service) load(ctx context.Context, projectName, campaignName string, id uuid.UUID) (*inputs, error) {
	var in inputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.projects.Get(gctx, projectName)
		if err != nil {
			return fmt.Errorf("load project %q: %w", projectName, err)
		}
		in.project = p
		return nil
	})
	g.Go(func() error {
		c, err := s.campaigns.Get(gctx, projectName, campaignName)
		if err != nil {
			return fmt.Errorf("load campaign %q: %w", campaignName, err)
		}
		in.campaign = c
		return nil
	})
	g.Go(func() error {
		refs, err := s.references.List(gctx, projectName, campaignName)
		if err != nil {
			return fmt.Errorf("load references: %w", err)
		}
		in.campaignRefs = refs
		return nil
	})
	if id != uuid.Nil {
		g.Go(func() error {
			r, err := s.requests.Get(gctx, projectName, campaignName, id)
			if err != nil {
				return fmt.Errorf("load request: %w", err)
			}
			in.request = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Generate runs the full pipeline for a stored request. The request moves
// to Generating, then Succeeded or Failed. A provider failure is reported
// in the Outcome, not as an error; errors are reserved for missing
// documents and storage failures.
//
// The work is detached from ctx's cancellation: a caller that goes away
// does not abort an in-flight generation.
func (s *Service) Generate(ctx context.Context, projectName, campaignName string, id uuid.UUID) (*Outcome, error) {
	ctx = context.WithoutCancel(ctx)

	in, err := s.load(ctx, projectName, campaignName, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.requests.Update(ctx, projectName, campaignName, id, func(r *models.Request) error {
		r.BeginGeneration(s.now())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("mark generating: %w", err)
	}

	gc := BuildContext(in.project, in.campaign)
	pinned := PinnedReferences(in.project, in.campaignRefs)
	refImages := AllReferenceImages(in.project, in.campaign)

	slog.Info("generation started",
		"project", projectName, "campaign", campaignName, "request", id,
		"pinned", len(pinned), "reference_images", len(refImages))

	res := s.orchestrator.Run(ctx, in.request.RawPrompt, gc, pinned, in.request.Feedback, refImages)

	out := &Outcome{
		Success:   res.Success,
		RequestID: id.String(),
		RawPrompt: res.RawPrompt,
		Attempt:   res.Attempt,
	}

	if !res.Success {
		out.Error = res.Error
		out.Status = models.RequestStatusFailed
		if err := s.finish(ctx, projectName, campaignName, id, false); err != nil {
			return nil, err
		}
		slog.Error("generation failed", "request", id, "attempts", res.Attempt, "error", res.Error)
		return out, nil
	}

	at := s.now()
	contentType := imaging.DetectContentType(res.Image)
	imagePath, err := s.assets.SaveImage(ctx, projectName, campaignName, id.String(), at, contentType, extensionFor(contentType), res.Image)
	if err != nil {
		s.finish(ctx, projectName, campaignName, id, false)
		return nil, err
	}

	entry := &models.GenerationLog{
		Timestamp:      at.UTC(),
		RawPrompt:      res.RawPrompt,
		ImprovedPrompt: res.OptimizedPrompt,
		RevisedPrompt:  res.RevisedPrompt,
		ImagePath:      imagePath,
		Status:         models.RequestStatusSucceeded,
		Feedback:       in.request.Feedback,
		Attempt:        res.Attempt,
		GenerationSettings: models.GenerationSettings{
			Model:   res.Metadata.Model,
			Size:    res.Metadata.Size,
			Quality: res.Metadata.Quality,
			Demo:    res.Metadata.Demo,
		},
	}
	logPath, err := s.assets.SaveLog(ctx, projectName, campaignName, id.String(), at, entry)
	if err != nil {
		s.finish(ctx, projectName, campaignName, id, false)
		return nil, err
	}

	if err := s.finish(ctx, projectName, campaignName, id, true); err != nil {
		return nil, err
	}

	meta := res.Metadata
	out.Status = models.RequestStatusSucceeded
	out.OptimizedPrompt = res.OptimizedPrompt
	out.RevisedPrompt = res.RevisedPrompt
	out.ImagePath = imagePath
	out.LogPath = logPath
	out.Metadata = &meta

	slog.Info("generation succeeded", "request", id, "attempt", res.Attempt, "image", imagePath, "demo", meta.Demo)
	return out, nil
}

func (s *Service) finish(ctx context.Context, projectName, campaignName string, id uuid.UUID, success bool) error {
	_, err := s.requests.Update(ctx, projectName, campaignName, id, func(r *models.Request) error {
		r.FinishGeneration(success, s.now())
		return nil
	})
	if err != nil {
		slog.Error("request status update failed", "request", id, "success", success, "error", err)
		return fmt.Errorf("record generation outcome: %w", err)
	}
	return nil
}

// Preview returns the optimized prompt a generate call would start from,
// without generating an image or touching the request's status.
func (s *Service) Preview(ctx context.Context, projectName, campaignName string, id uuid.UUID) (string, error) {
	in, err := s.load(ctx, projectName, campaignName, id)
	if err != nil {
		return "", err
	}
	return s.optimize(ctx, in, in.request.RawPrompt, in.request.Feedback)
}

// Optimize previews the optimized form of an ad-hoc prompt within a
// campaign's context.
func (s *Service) Optimize(ctx context.Context, projectName, campaignName, rawPrompt, feedback string) (string, error) {
	if rawPrompt == "" {
		return "", &models.ValidationError{Problems: []string{"rawPrompt is required"}}
	}
	in, err := s.load(ctx, projectName, campaignName, uuid.Nil)
	if err != nil {
		return "", err
	}
	return s.optimize(ctx, in, rawPrompt, feedback)
}

func (s *Service) optimize(ctx context.Context, in *inputs, rawPrompt, feedback string) (string, error) {
	gc := BuildContext(in.project, in.campaign)
	pinned := PinnedReferences(in.project, in.campaignRefs)
	refImages := AllReferenceImages(in.project, in.campaign)

	var prompt string
	err := s.orchestrator.call(ctx, func(ctx context.Context) error {
		var err error
		prompt, err = s.orchestrator.optimizer.Optimize(ctx, rawPrompt, gc, pinned, feedback, refImages)
		return err
	})
	return prompt, err
}

// extensionFor maps a sniffed content type to a file extension.
func extensionFor(contentType string) string {
	if ext := imaging.Extension(contentType); ext != "" {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
