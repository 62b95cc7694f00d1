// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"brandshot/internal/scheduler"
	"brandshot/internal/storage"
	"brandshot/internal/store"
)

// presignExpiry is how long a redirected blob URL stays valid.
const presignExpiry = 15 * time.Minute

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status       string       `json:"status"`
	Provider     string       `json:"provider"`
	Quota        string       `json:"quota"`
	FallbackMode bool         `json:"fallbackMode"`
	Details      string       `json:"details"`
	Providers    ProviderInfo `json:"providers"`
	Timestamp    time.Time    `json:"timestamp"`
}

// Health reports provider connectivity and quota. The service itself is
// always "healthy" when it can answer; provider trouble shows up as
// fallbackMode.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	st := a.Deps.Health.Check(r.Context())

	resp := healthResponse{
		Status:       "healthy",
		Provider:     "disconnected",
		Quota:        "exceeded",
		FallbackMode: !st.HasQuota,
		Details:      "OK",
		Providers:    a.Providers,
		Timestamp:    time.Now().UTC(),
	}
	if st.Connected {
		resp.Provider = "connected"
	}
	if st.HasQuota {
		resp.Quota = "available"
	}
	if st.Error != "" {
		resp.Details = st.Error
	}
	writeJSON(w, http.StatusOK, resp)
}

// Tasks lists the scheduled jobs and their last and next runs.
func (a *API) Tasks(w http.ResponseWriter, r *http.Request) {
	tasks := []scheduler.JobStatus{}
	if a.Scheduler != nil {
		tasks = a.Scheduler.Status()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": a.Scheduler != nil,
		"tasks":   tasks,
	})
}

// ServeBlob serves generated assets and uploaded reference images by
// their storage key, which is the URL path without the leading slash.
// Backends that can presign answer with a redirect instead.
func (a *API) ServeBlob(w http.ResponseWriter, r *http.Request) {
	key, err := storage.CleanKey(strings.TrimPrefix(r.URL.Path, "/"))
	if err != nil {
		writeError(w, "Not found", http.StatusNotFound)
		return
	}

	if p, ok := a.Blobs.(storage.Presigner); ok {
		url, err := p.PresignGet(r.Context(), key, presignExpiry)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	data, err := a.Assets.Open(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, "Not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", storage.ContentTypeFor(key))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
