// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the brandshot API.
// Handlers receive their dependencies through the API struct and map
// domain errors to status codes in one place.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandshot/internal/generation"
	"brandshot/internal/models"
	"brandshot/internal/references"
	"brandshot/internal/scheduler"
	"brandshot/internal/storage"
	"brandshot/internal/store"
	"brandshot/internal/upload"
)

// maxJSONBody caps JSON request bodies (10 MB).
const maxJSONBody = 10 << 20

// ProviderInfo names the configured providers for the health endpoint.
type ProviderInfo struct {
	Text     string `json:"text"`
	Image    string `json:"image"`
	DemoMode bool   `json:"demoMode"`
}

// Deps are the services the API handlers call. Scheduler may be nil when
// scheduled tasks are disabled.
type Deps struct {
	Projects   *store.ProjectStore
	Campaigns  *store.CampaignStore
	Requests   *store.RequestStore
	Assets     *store.AssetStore
	Blobs      storage.Store
	References *references.Service
	Generation *generation.Service
	Health     *generation.HealthChecker
	Uploads    *upload.Processor
	Scheduler  *scheduler.Scheduler
	Providers  ProviderInfo
}

// API groups all HTTP handlers and their dependencies.
type API struct {
	Deps
}

// New creates the API handler group.
func New(d Deps) *API {
	return &API{Deps: d}
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError writes a {"error": msg} body.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps a service error to a status code. Validation
// problems are 400, missing documents 404, name clashes 409, provider
// failures 502, and anything else 500 with a generic message.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	var step *generation.StepError
	switch {
	case errors.As(err, &verr):
		writeError(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrExists):
		writeError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &step):
		slog.WarnContext(r.Context(), "provider step failed", "step", step.Step, "error", err)
		writeError(w, step.Error(), http.StatusBadGateway)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &models.ValidationError{Problems: []string{fmt.Sprintf("invalid JSON body: %v", err)}}
	}
	return nil
}

// requestID parses the {requestID} URL parameter.
func requestID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("request %q: %w", chi.URLParam(r, "requestID"), store.ErrNotFound)
	}
	return id, nil
}
