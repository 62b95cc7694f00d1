// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"brandshot/internal/models"
)

// projectPatch lists the project fields a PUT may change. Absent fields
// keep their stored value.
type projectPatch struct {
	ClientName    *string               `json:"clientName"`
	ClientContact *models.ClientContact `json:"clientContact"`
	Description   *string               `json:"description"`
	StyleGuide    *string               `json:"styleGuide"`
	StartDate     *string               `json:"startDate"`
	EndDate       *string               `json:"endDate"`
	References    []string              `json:"references"`
}

func (p projectPatch) apply(dst *models.Project) {
	setString(&dst.ClientName, p.ClientName)
	setString(&dst.Description, p.Description)
	setString(&dst.StyleGuide, p.StyleGuide)
	setString(&dst.StartDate, p.StartDate)
	setString(&dst.EndDate, p.EndDate)
	if p.ClientContact != nil {
		dst.ClientContact = *p.ClientContact
	}
	if p.References != nil {
		dst.References = p.References
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ListProjects returns every project.
func (a *API) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.Projects.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject returns one project.
func (a *API) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := a.Projects.Get(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProject creates a project from the JSON body.
func (a *API) CreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := decodeJSON(w, r, &p); err != nil {
		writeStoreError(w, r, err)
		return
	}
	// Approvals and uploads go through their own endpoints.
	p.ApprovedImages = nil
	p.ReferenceImages = nil
	if err := a.Projects.Create(r.Context(), &p); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProject applies a partial update.
func (a *API) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var patch projectPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	p, err := a.Projects.Update(r.Context(), chi.URLParam(r, "project"), func(p *models.Project) error {
		patch.apply(p)
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject removes a project with everything stored under it.
func (a *API) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := a.Projects.Delete(r.Context(), chi.URLParam(r, "project")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
