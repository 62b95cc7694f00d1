// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package references manages the two-tier reference library. Approved
// generation results live either on the project (visible to all of its
// campaigns) or on one campaign. Pin changes are always persisted as a
// whole-collection replacement of the affected tier.
package references

import (
	"context"
	"fmt"
	"time"

	"brandshot/internal/models"
	"brandshot/internal/store"
)

// ApproveInput is the caller-supplied part of a new Reference.
type ApproveInput struct {
	RequestID   string `json:"requestId"`
	ImagePath   string `json:"imagePath"`
	FinalPrompt string `json:"finalPrompt"`
	Caption     string `json:"caption"`
	Pinned      bool   `json:"pinned"`
}

// Service approves generation results and maintains both reference tiers.
type Service struct {
	projects  *store.ProjectStore
	campaigns *store.CampaignStore
	refs      *store.ReferenceStore
	now       func() time.Time
}

// NewService creates a reference service.
func NewService(projects *store.ProjectStore, campaigns *store.CampaignStore, refs *store.ReferenceStore) *Service {
	return &Service{projects: projects, campaigns: campaigns, refs: refs, now: time.Now}
}

// Approve appends a new reference to the chosen tier: the project's
// approved images, or the campaign's reference collection. The campaign
// must exist either way since approval happens from within one.
func (s *Service) Approve(ctx context.Context, project, campaign string, tier models.Tier, in ApproveInput) (*models.Reference, error) {
	if !tier.Valid() {
		return nil, &models.ValidationError{Problems: []string{fmt.Sprintf("tier %q must be project or campaign", tier)}}
	}
	ref := models.Reference{
		RequestID:   in.RequestID,
		ImagePath:   in.ImagePath,
		FinalPrompt: in.FinalPrompt,
		Caption:     in.Caption,
		Pinned:      in.Pinned,
		Tier:        tier,
		Created:     s.now().UTC(),
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.campaigns.Get(ctx, project, campaign); err != nil {
		return nil, err
	}

	switch tier {
	case models.TierProject:
		if _, err := s.projects.Update(ctx, project, func(p *models.Project) error {
			p.ApprovedImages = append(p.ApprovedImages, ref)
			return nil
		}); err != nil {
			return nil, fmt.Errorf("approve at project tier: %w", err)
		}
	case models.TierCampaign:
		if _, err := s.refs.Append(ctx, project, campaign, ref); err != nil {
			return nil, fmt.Errorf("approve at campaign tier: %w", err)
		}
	}
	return &ref, nil
}

// AddProjectReference appends an approval to the project tier without
// requiring a campaign.
func (s *Service) AddProjectReference(ctx context.Context, project string, in ApproveInput) (*models.Reference, error) {
	ref := models.Reference{
		RequestID:   in.RequestID,
		ImagePath:   in.ImagePath,
		FinalPrompt: in.FinalPrompt,
		Caption:     in.Caption,
		Pinned:      in.Pinned,
		Tier:        models.TierProject,
		Created:     s.now().UTC(),
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.projects.Update(ctx, project, func(p *models.Project) error {
		p.ApprovedImages = append(p.ApprovedImages, ref)
		return nil
	}); err != nil {
		return nil, err
	}
	return &ref, nil
}

// ProjectReferences returns the project tier.
func (s *Service) ProjectReferences(ctx context.Context, project string) ([]models.Reference, error) {
	p, err := s.projects.Get(ctx, project)
	if err != nil {
		return nil, err
	}
	return withTier(p.ApprovedImages, models.TierProject), nil
}

// ReplaceProjectReferences overwrites the project tier.
func (s *Service) ReplaceProjectReferences(ctx context.Context, project string, refs []models.Reference) ([]models.Reference, error) {
	refs = withTier(refs, models.TierProject)
	p, err := s.projects.Update(ctx, project, func(p *models.Project) error {
		p.ApprovedImages = refs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.ApprovedImages, nil
}

// CampaignReferences returns the campaign tier.
func (s *Service) CampaignReferences(ctx context.Context, project, campaign string) ([]models.Reference, error) {
	return s.refs.List(ctx, project, campaign)
}

// ReplaceCampaignReferences overwrites the campaign tier.
func (s *Service) ReplaceCampaignReferences(ctx context.Context, project, campaign string, refs []models.Reference) ([]models.Reference, error) {
	return s.refs.Replace(ctx, project, campaign, refs)
}

// withTier returns a copy of refs with every tier set to t. A nil input
// becomes an empty list.
func withTier(refs []models.Reference, t models.Tier) []models.Reference {
	out := make([]models.Reference, len(refs))
	for i, r := range refs {
		r.Tier = t
		out[i] = r
	}
	return out
}
