// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload turns a multipart temp file into a stored reference image
// with an optional thumbnail.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandshot/internal/imaging"
	"brandshot/internal/models"
	"brandshot/internal/storage"
	"brandshot/internal/store"
)

const (
	// DefaultMaxBytes is the upload size limit when none is configured (10 MB).
	DefaultMaxBytes = 10 << 20

	// DefaultTempMaxAge is how old a temp file must be before CleanupTemp
	// removes it.
	DefaultTempMaxAge = 24 * time.Hour
)

// Metadata is the user-supplied description of an upload.
type Metadata struct {
	Name        string
	Description string
	Tags        []string
	Notes       string
	// FileName is the client's original file name; its extension must
	// match the sniffed content type.
	FileName string
}

// Processor validates uploads and relocates them into blob storage.
type Processor struct {
	store    storage.Store
	tempDir  string
	maxBytes int64
	now      func() time.Time
}

// NewProcessor creates a Processor. maxBytes <= 0 selects DefaultMaxBytes.
func NewProcessor(s storage.Store, tempDir string, maxBytes int64) *Processor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Processor{store: s, tempDir: tempDir, maxBytes: maxBytes, now: time.Now}
}

// TempDir is the directory uploads are staged in before Process.
func (p *Processor) TempDir() string {
	return p.tempDir
}

// MaxBytes is the configured size limit.
func (p *Processor) MaxBytes() int64 {
	return p.maxBytes
}

// Process validates the staged file at tempPath and stores it under the
// project tier (campaign empty) or a campaign tier. The temp file is
// removed whether or not processing succeeds.
func (p *Processor) Process(ctx context.Context, tempPath, project, campaign string, meta Metadata) (*models.ReferenceImage, error) {
	defer func() {
		if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("temp upload cleanup failed", "path", tempPath, "error", err)
		}
	}()

	if strings.TrimSpace(meta.Name) == "" {
		return nil, &models.ValidationError{Problems: []string{"name is required"}}
	}

	info, err := os.Stat(tempPath)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.Size() > p.maxBytes {
		return nil, &models.ValidationError{Problems: []string{
			fmt.Sprintf("file too large: maximum size is %d MB", p.maxBytes>>20),
		}}
	}
	data, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	contentType := imaging.DetectContentType(data)
	canonical := imaging.Extension(contentType)
	if canonical == "" {
		return nil, &models.ValidationError{Problems: []string{
			"only image files are allowed (jpeg, jpg, png, webp, gif)",
		}}
	}
	ext := strings.ToLower(filepath.Ext(meta.FileName))
	if ext == "" {
		ext = canonical
	}
	if !imaging.ExtensionMatches(contentType, ext) {
		return nil, &models.ValidationError{Problems: []string{
			fmt.Sprintf("file extension %q does not match content type %s", ext, contentType),
		}}
	}

	id := uuid.New()
	prefix := store.ReferenceImagePrefix(project, campaign)
	key := prefix + id.String() + ext
	if err := p.store.Put(ctx, key, contentType, data); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	img := &models.ReferenceImage{
		ID:          id,
		Name:        strings.TrimSpace(meta.Name),
		Description: meta.Description,
		FilePath:    key,
		FileName:    id.String() + ext,
		FileSize:    int64(len(data)),
		MimeType:    contentType,
		Tags:        meta.Tags,
		Notes:       meta.Notes,
		UploadDate:  p.now().UTC(),
	}
	if img.Tags == nil {
		img.Tags = []string{}
	}

	thumb, err := imaging.Thumbnail(data, imaging.ThumbMaxWidth)
	switch {
	case err != nil:
		slog.Warn("thumbnail generation failed", "key", key, "error", err)
	case thumb != nil:
		thumbKey := prefix + id.String() + "_thumb.jpg"
		if err := p.store.Put(ctx, thumbKey, "image/jpeg", thumb); err != nil {
			slog.Warn("thumbnail upload failed", "key", thumbKey, "error", err)
		} else {
			img.ThumbPath = thumbKey
		}
	}
	return img, nil
}

// Delete removes the stored bytes of img and its thumbnail. Failures are
// logged, not returned.
func (p *Processor) Delete(ctx context.Context, img *models.ReferenceImage) {
	for _, key := range []string{img.FilePath, img.ThumbPath} {
		if key == "" {
			continue
		}
		if err := p.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotExist) {
			slog.Warn("reference image delete failed", "key", key, "error", err)
		}
	}
}

// CleanupTemp removes regular files in the temp directory last modified
// more than olderThan ago, returning how many were removed.
func (p *Processor) CleanupTemp(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(p.tempDir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	cutoff := p.now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(p.tempDir, e.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("temp file cleanup failed", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
