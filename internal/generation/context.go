// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generation turns a request's raw prompt into a stored image: it
// builds the brand context, optimizes the prompt through the text provider
// (or a local fallback), generates and downloads the image, and retries the
// whole pipeline with linear backoff.
package generation

import "brandshot/internal/models"

// Context is the brand and campaign information fed to the optimizer. It is
// built once per generation and not modified afterwards.
type Context struct {
	ProjectName             string
	StyleGuide              string
	CampaignName            string
	CampaignDescription     string
	CampaignType            models.CampaignType
	TargetAudience          string
	ImageRequirements       []string
	ImageSpecifications     models.ImageSpecifications
	Palette                 []string
	SloganTemplates         []string
	ProjectReferenceImages  []models.ReferenceImage
	CampaignReferenceImages []models.ReferenceImage
}

// BuildContext copies the relevant fields out of a project and campaign.
// Slices are copied so later edits to either document do not leak in.
func BuildContext(p *models.Project, c *models.Campaign) Context {
	return Context{
		ProjectName:             p.Name,
		StyleGuide:              p.StyleGuide,
		CampaignName:            c.Name,
		CampaignDescription:     c.Description,
		CampaignType:            c.CampaignType,
		TargetAudience:          c.TargetAudience,
		ImageRequirements:       append([]string(nil), c.ImageRequirements...),
		ImageSpecifications:     c.ImageSpecifications,
		Palette:                 append([]string(nil), c.Palette...),
		SloganTemplates:         append([]string(nil), c.SloganTemplates...),
		ProjectReferenceImages:  append([]models.ReferenceImage(nil), p.ReferenceImages...),
		CampaignReferenceImages: append([]models.ReferenceImage(nil), c.ReferenceImages...),
	}
}

// PinnedReferences returns the pinned references visible to a campaign:
// project tier first, then campaign tier, each in stored order.
func PinnedReferences(p *models.Project, campaignRefs []models.Reference) []models.Reference {
	out := make([]models.Reference, 0)
	for _, r := range p.PinnedReferences() {
		r.Tier = models.TierProject
		out = append(out, r)
	}
	for _, r := range models.PinnedOf(campaignRefs) {
		r.Tier = models.TierCampaign
		out = append(out, r)
	}
	return out
}

// AllReferenceImages returns the uploaded reference images of both tiers,
// project first.
func AllReferenceImages(p *models.Project, c *models.Campaign) []models.ReferenceImage {
	out := make([]models.ReferenceImage, 0, len(p.ReferenceImages)+len(c.ReferenceImages))
	out = append(out, p.ReferenceImages...)
	return append(out, c.ReferenceImages...)
}
