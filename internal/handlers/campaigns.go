// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"brandshot/internal/models"
)

// campaignPatch lists the campaign fields a PUT may change.
type campaignPatch struct {
	Description         *string                     `json:"description"`
	CampaignType        *models.CampaignType        `json:"campaignType"`
	Recurrence          *models.Recurrence          `json:"recurrence"`
	TargetAudience      *string                     `json:"targetAudience"`
	ImageRequirements   []string                    `json:"imageRequirements"`
	ImageSpecifications *models.ImageSpecifications `json:"imageSpecifications"`
	StartDate           *string                     `json:"startDate"`
	EndDate             *string                     `json:"endDate"`
	Palette             []string                    `json:"palette"`
	SloganTemplates     []string                    `json:"sloganTemplates"`
}

func (p campaignPatch) apply(dst *models.Campaign) {
	setString(&dst.Description, p.Description)
	setString(&dst.TargetAudience, p.TargetAudience)
	setString(&dst.StartDate, p.StartDate)
	setString(&dst.EndDate, p.EndDate)
	if p.CampaignType != nil {
		dst.CampaignType = *p.CampaignType
	}
	if p.Recurrence != nil {
		dst.Recurrence = *p.Recurrence
	}
	if p.ImageSpecifications != nil {
		dst.ImageSpecifications = *p.ImageSpecifications
	}
	if p.ImageRequirements != nil {
		dst.ImageRequirements = p.ImageRequirements
	}
	if p.Palette != nil {
		dst.Palette = p.Palette
	}
	if p.SloganTemplates != nil {
		dst.SloganTemplates = p.SloganTemplates
	}
}

// ListCampaigns returns the campaigns of a project.
func (a *API) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Campaigns.List(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// GetCampaign returns one campaign.
func (a *API) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := a.Campaigns.Get(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCampaign creates a campaign in the project.
func (a *API) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var c models.Campaign
	if err := decodeJSON(w, r, &c); err != nil {
		writeStoreError(w, r, err)
		return
	}
	c.ReferenceImages = nil
	if err := a.Campaigns.Create(r.Context(), chi.URLParam(r, "project"), &c); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCampaign applies a partial update.
func (a *API) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var patch campaignPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	c, err := a.Campaigns.Update(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), func(c *models.Campaign) error {
		patch.apply(c)
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCampaign removes a campaign and its requests, references, assets,
// and logs.
func (a *API) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := a.Campaigns.Delete(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
