// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandshot/internal/models"
	"brandshot/internal/store"
	"brandshot/internal/upload"
)

// multipartOverhead is allowed on top of the file size for form fields.
const multipartOverhead = 1 << 20

// ProjectImages lists the reference images uploaded to a project.
func (a *API) ProjectImages(w http.ResponseWriter, r *http.Request) {
	a.listImages(w, r, chi.URLParam(r, "project"), "")
}

// CampaignImages lists the reference images uploaded to a campaign.
func (a *API) CampaignImages(w http.ResponseWriter, r *http.Request) {
	a.listImages(w, r, chi.URLParam(r, "project"), chi.URLParam(r, "campaign"))
}

func (a *API) listImages(w http.ResponseWriter, r *http.Request, project, campaign string) {
	imgs, err := a.References.Images(r.Context(), project, campaign)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if imgs == nil {
		imgs = []models.ReferenceImage{}
	}
	writeJSON(w, http.StatusOK, imgs)
}

// UploadProjectImage stores a multipart "image" upload on the project.
func (a *API) UploadProjectImage(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	if _, err := a.Projects.Get(r.Context(), project); err != nil {
		writeStoreError(w, r, err)
		return
	}
	a.uploadImage(w, r, project, "")
}

// UploadCampaignImage stores a multipart "image" upload on the campaign.
func (a *API) UploadCampaignImage(w http.ResponseWriter, r *http.Request) {
	project, campaign := chi.URLParam(r, "project"), chi.URLParam(r, "campaign")
	if _, err := a.Campaigns.Get(r.Context(), project, campaign); err != nil {
		writeStoreError(w, r, err)
		return
	}
	a.uploadImage(w, r, project, campaign)
}

func (a *API) uploadImage(w http.ResponseWriter, r *http.Request, project, campaign string) {
	maxBytes := a.Uploads.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, fmt.Sprintf("File too large. Maximum size is %d MB.", maxBytes>>20), http.StatusRequestEntityTooLarge)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, "No image provided.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tempPath, err := a.stage(file)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}
	img, err := a.Uploads.Process(r.Context(), tempPath, project, campaign, upload.Metadata{
		Name:        name,
		Description: r.FormValue("description"),
		Tags:        models.SplitTags(r.FormValue("tags")),
		Notes:       r.FormValue("notes"),
		FileName:    header.Filename,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if err := a.References.AttachImage(r.Context(), project, campaign, *img); err != nil {
		a.Uploads.Delete(r.Context(), img)
		writeStoreError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "reference image uploaded",
		"project", project, "campaign", campaign, "id", img.ID, "key", img.FilePath, "size", img.FileSize)
	writeJSON(w, http.StatusCreated, img)
}

// stage copies the uploaded part into the processor's temp directory.
func (a *API) stage(src io.Reader) (string, error) {
	if err := os.MkdirAll(a.Uploads.TempDir(), 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	f, err := os.CreateTemp(a.Uploads.TempDir(), "upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("stage upload: %w", err)
	}
	return f.Name(), nil
}

func imageID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("reference image %q: %w", chi.URLParam(r, "id"), store.ErrNotFound)
	}
	return id, nil
}

// UpdateReferenceImage edits the metadata of an uploaded image wherever it
// is attached.
func (a *API) UpdateReferenceImage(w http.ResponseWriter, r *http.Request) {
	id, err := imageID(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	var upd models.ReferenceImageUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeStoreError(w, r, err)
		return
	}
	img, err := a.References.UpdateImage(r.Context(), id, upd)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

// DeleteReferenceImage detaches an uploaded image and removes its bytes.
func (a *API) DeleteReferenceImage(w http.ResponseWriter, r *http.Request) {
	id, err := imageID(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	img, err := a.References.RemoveImage(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	a.Uploads.Delete(r.Context(), img)
	w.WriteHeader(http.StatusNoContent)
}
