// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"log/slog"

	"brandshot/internal/models"
)

// Seed populates an empty store with a sample project and campaign so a
// development instance has something to generate against. It is a no-op
// when any project exists.
func Seed(ctx context.Context, projects *ProjectStore, campaigns *CampaignStore) error {
	existing, err := projects.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check projects: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("store already seeded, skipping")
		return nil
	}

	p := &models.Project{
		Name:        "Sample Brand",
		ClientName:  "Sample Co",
		Description: "Demo project created on first start",
		StyleGuide:  "Clean flat illustration with soft shadows and generous whitespace",
	}
	if err := projects.Create(ctx, p); err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	c := &models.Campaign{
		Name:              "Spring Launch",
		Description:       "Social visuals for the spring product launch",
		CampaignType:      models.CampaignTypeProductLaunch,
		TargetAudience:    "Young professionals",
		ImageRequirements: []string{"Product centered", "No text in image"},
		ImageSpecifications: models.ImageSpecifications{
			AspectRatio: "1:1",
			Resolution:  "1024x1024",
			Format:      "PNG",
		},
		Palette: []string{"#FF6B6B", "#4ECDC4", "#FFE66D"},
	}
	if err := campaigns.Create(ctx, p.Name, c); err != nil {
		return fmt.Errorf("seed campaign: %w", err)
	}

	slog.Info("store seeded with sample project", "project", p.Name, "campaign", c.Name)
	return nil
}
