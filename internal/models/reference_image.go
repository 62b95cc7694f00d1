// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReferenceImage is a user-uploaded image attached to a project or a
// campaign. The bytes live in blob storage under FilePath.
type ReferenceImage struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	FilePath    string    `json:"filePath"`
	FileName    string    `json:"fileName"`
	ThumbPath   string    `json:"thumbPath,omitempty"`
	FileSize    int64     `json:"fileSize"`
	MimeType    string    `json:"mimeType"`
	Tags        []string  `json:"tags"`
	Notes       string    `json:"notes,omitempty"`
	Pinned      bool      `json:"pinned"`
	UploadDate  time.Time `json:"uploadDate"`
}

// IsImage returns true if the stored file has an image MIME type.
func (m *ReferenceImage) IsImage() bool {
	return strings.HasPrefix(m.MimeType, "image/")
}

// HumanSize returns a human-readable file size string.
func (m *ReferenceImage) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.FileSize >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.FileSize)/float64(mb))
	case m.FileSize >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.FileSize)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.FileSize)
	}
}

// ReferenceImageUpdate carries the user-editable metadata of a reference
// image. Nil fields are left unchanged.
type ReferenceImageUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Notes       *string  `json:"notes"`
	Pinned      *bool    `json:"pinned"`
}

// Apply merges u into m.
func (u ReferenceImageUpdate) Apply(m *ReferenceImage) error {
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return &ValidationError{Problems: []string{"name is required"}}
		}
		m.Name = *u.Name
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Tags != nil {
		m.Tags = u.Tags
	}
	if u.Notes != nil {
		m.Notes = *u.Notes
	}
	if u.Pinned != nil {
		m.Pinned = *u.Pinned
	}
	return nil
}
