// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package references

import (
	"context"
	"fmt"

	"brandshot/internal/models"
)

// Library is the combined view a campaign sees: project-tier references
// first, then campaign-tier ones. Edits are made in memory and written back
// per tier by Persist.
type Library struct {
	Project  string             `json:"project"`
	Campaign string             `json:"campaign"`
	Items    []models.Reference `json:"items"`

	dirty map[models.Tier]bool
}

// Library loads the combined reference list for a campaign.
func (s *Service) Library(ctx context.Context, project, campaign string) (*Library, error) {
	projectRefs, err := s.ProjectReferences(ctx, project)
	if err != nil {
		return nil, err
	}
	campaignRefs, err := s.CampaignReferences(ctx, project, campaign)
	if err != nil {
		return nil, err
	}
	items := make([]models.Reference, 0, len(projectRefs)+len(campaignRefs))
	items = append(items, projectRefs...)
	items = append(items, campaignRefs...)
	return &Library{Project: project, Campaign: campaign, Items: items}, nil
}

// SetPinned changes the pin flag of the item at index and marks its tier
// for persistence.
func (l *Library) SetPinned(index int, pinned bool) error {
	if index < 0 || index >= len(l.Items) {
		return &models.ValidationError{Problems: []string{fmt.Sprintf("reference index %d is out of range", index)}}
	}
	if l.Items[index].Pinned == pinned {
		return nil
	}
	l.Items[index].Pinned = pinned
	if l.dirty == nil {
		l.dirty = make(map[models.Tier]bool)
	}
	l.dirty[l.Items[index].Tier] = true
	return nil
}

// Tier returns the library items belonging to t, in library order.
func (l *Library) Tier(t models.Tier) []models.Reference {
	out := []models.Reference{}
	for _, r := range l.Items {
		if r.Tier == t {
			out = append(out, r)
		}
	}
	return out
}

// Pinned returns the pinned items in library order.
func (l *Library) Pinned() []models.Reference {
	return models.PinnedOf(l.Items)
}

// Persist writes back every tier changed since the library was loaded. Each
// tier is stored as a full replacement; unchanged tiers are not written.
func (s *Service) Persist(ctx context.Context, l *Library) error {
	if l.dirty[models.TierProject] {
		if _, err := s.ReplaceProjectReferences(ctx, l.Project, l.Tier(models.TierProject)); err != nil {
			return fmt.Errorf("persist project references: %w", err)
		}
	}
	if l.dirty[models.TierCampaign] {
		if _, err := s.ReplaceCampaignReferences(ctx, l.Project, l.Campaign, l.Tier(models.TierCampaign)); err != nil {
			return fmt.Errorf("persist campaign references: %w", err)
		}
	}
	l.dirty = nil
	return nil
}

// TogglePin loads the library, sets the pin at index, and persists the
// affected tier.
func (s *Service) TogglePin(ctx context.Context, project, campaign string, index int, pinned bool) (*Library, error) {
	l, err := s.Library(ctx, project, campaign)
	if err != nil {
		return nil, err
	}
	if err := l.SetPinned(index, pinned); err != nil {
		return nil, err
	}
	if err := s.Persist(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
