// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brandshot/internal/models"
	"brandshot/internal/references"
)

type approveBody struct {
	Tier models.Tier `json:"tier"`
	references.ApproveInput
}

type pinBody struct {
	Pinned bool `json:"pinned"`
}

// ProjectReferences returns the project's approved images.
func (a *API) ProjectReferences(w http.ResponseWriter, r *http.Request) {
	refs, err := a.References.ProjectReferences(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"approvedImages": refs})
}

// AddProjectReference approves an image at the project tier. Unlike the
// approve endpoint no campaign is involved.
func (a *API) AddProjectReference(w http.ResponseWriter, r *http.Request) {
	var in references.ApproveInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeStoreError(w, r, err)
		return
	}
	ref, err := a.References.AddProjectReference(r.Context(), chi.URLParam(r, "project"), in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

// ReplaceProjectReferences overwrites the project's approved images.
func (a *API) ReplaceProjectReferences(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ApprovedImages []models.Reference `json:"approvedImages"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeStoreError(w, r, err)
		return
	}
	refs, err := a.References.ReplaceProjectReferences(r.Context(), chi.URLParam(r, "project"), body.ApprovedImages)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"approvedImages": refs})
}

// CampaignReferences returns the campaign's reference collection.
func (a *API) CampaignReferences(w http.ResponseWriter, r *http.Request) {
	refs, err := a.References.CampaignReferences(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"references": refs})
}

// AddCampaignReference approves an image at the campaign tier.
func (a *API) AddCampaignReference(w http.ResponseWriter, r *http.Request) {
	var in references.ApproveInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeStoreError(w, r, err)
		return
	}
	ref, err := a.References.Approve(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), models.TierCampaign, in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

// ReplaceCampaignReferences overwrites the campaign's reference collection.
func (a *API) ReplaceCampaignReferences(w http.ResponseWriter, r *http.Request) {
	var body struct {
		References []models.Reference `json:"references"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeStoreError(w, r, err)
		return
	}
	refs, err := a.References.ReplaceCampaignReferences(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), body.References)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"references": refs})
}

// Approve records a generation result at the tier the caller picks.
func (a *API) Approve(w http.ResponseWriter, r *http.Request) {
	var body approveBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeStoreError(w, r, err)
		return
	}
	ref, err := a.References.Approve(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), body.Tier, body.ApproveInput)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

// Library returns the combined project-then-campaign reference list.
func (a *API) Library(w http.ResponseWriter, r *http.Request) {
	lib, err := a.References.Library(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lib)
}

// PinReference sets the pin flag of a library item by its index in the
// combined list.
func (a *API) PinReference(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, "index must be an integer", http.StatusBadRequest)
		return
	}
	var body pinBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeStoreError(w, r, err)
		return
	}
	lib, err := a.References.TogglePin(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), index, body.Pinned)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lib)
}
