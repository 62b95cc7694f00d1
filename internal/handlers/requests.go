// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"brandshot/internal/models"
)

type createRequestBody struct {
	RawPrompt string `json:"rawPrompt"`
}

// requestPatch lists the request fields a PUT may change.
type requestPatch struct {
	RawPrompt        *string               `json:"rawPrompt"`
	Status           *models.RequestStatus `json:"status"`
	Feedback         *string               `json:"feedback"`
	ApprovedExamples []string              `json:"approvedExamples"`
}

type optimizeBody struct {
	RawPrompt string `json:"rawPrompt"`
	Feedback  string `json:"feedback"`
}

// ListRequests returns a campaign's requests, most recently updated first.
func (a *API) ListRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := a.Requests.List(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// GetRequest returns one request.
func (a *API) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	req, err := a.Requests.Get(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// CreateRequest records a new Pending request.
func (a *API) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeStoreError(w, r, err)
		return
	}
	if strings.TrimSpace(body.RawPrompt) == "" {
		writeError(w, "rawPrompt is required", http.StatusBadRequest)
		return
	}
	req, err := a.Requests.Create(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), body.RawPrompt)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// UpdateRequest applies a partial update. A status change is validated
// against the known statuses.
func (a *API) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	var patch requestPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	req, err := a.Requests.Update(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), id, func(req *models.Request) error {
		setString(&req.RawPrompt, patch.RawPrompt)
		setString(&req.Feedback, patch.Feedback)
		if patch.ApprovedExamples != nil {
			req.ApprovedExamples = patch.ApprovedExamples
		}
		if patch.Status != nil {
			return req.SetStatus(*patch.Status, req.Updated)
		}
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// DeleteRequest removes a request document.
func (a *API) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := a.Requests.Delete(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestLogs returns the generation logs of a request, oldest first.
func (a *API) RequestLogs(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	project, campaign := chi.URLParam(r, "project"), chi.URLParam(r, "campaign")
	if _, err := a.Requests.Get(r.Context(), project, campaign, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	logs, err := a.Assets.Logs(r.Context(), project, campaign, id.String())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Generate runs the full pipeline for a request. A failed run answers 500
// with {"success": false, "error": ...}.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out, err := a.Generation.Generate(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "campaign"), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !out.Success {
		writeJSON(w, http.StatusInternalServerError, out)
		return
	}
	if out.ImagePath != "" {
		out.ImagePath = "/" + out.ImagePath
	}
	writeJSON(w, http.StatusOK, out)
}

// Optimize previews the optimized prompt for a request without generating
// an image. A body with rawPrompt previews that text instead of the
// stored prompt.
func (a *API) Optimize(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	var body optimizeBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeStoreError(w, r, err)
		return
	}

	project, campaign := chi.URLParam(r, "project"), chi.URLParam(r, "campaign")
	var prompt string
	if strings.TrimSpace(body.RawPrompt) != "" {
		if _, err = a.Requests.Get(r.Context(), project, campaign, id); err == nil {
			prompt, err = a.Generation.Optimize(r.Context(), project, campaign, body.RawPrompt, body.Feedback)
		}
	} else {
		prompt, err = a.Generation.Preview(r.Context(), project, campaign, id)
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"optimizedPrompt": prompt})
}
