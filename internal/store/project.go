// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"brandshot/internal/models"
	"brandshot/internal/storage"
)

// ProjectStore handles project documents.
type ProjectStore struct {
	s     storage.Store
	now   Clock
	locks keyLocks
}

// NewProjectStore creates a new ProjectStore backed by s.
func NewProjectStore(s storage.Store) *ProjectStore {
	return &ProjectStore{s: s, now: time.Now}
}

// Create validates and persists a new project. Returns ErrExists when the
// name is taken.
func (ps *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	key := projectKey(p.Name)
	unlock := ps.locks.lock(key)
	defer unlock()

	found, err := exists(ctx, ps.s, key)
	if err != nil {
		return fmt.Errorf("create project %q: %w", p.Name, err)
	}
	if found {
		return fmt.Errorf("project %q: %w", p.Name, ErrExists)
	}

	p.Prepare(ps.now())
	if err := putJSON(ctx, ps.s, key, p); err != nil {
		return fmt.Errorf("create project %q: %w", p.Name, err)
	}
	return nil
}

// Get loads a project by name.
func (ps *ProjectStore) Get(ctx context.Context, name string) (*models.Project, error) {
	if err := models.ValidateName("project", name); err != nil {
		return nil, err
	}
	var p models.Project
	if err := getJSON(ctx, ps.s, projectKey(name), &p); err != nil {
		return nil, fmt.Errorf("project %q: %w", name, err)
	}
	return &p, nil
}

// List returns every project sorted by name.
func (ps *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	objs, err := ps.s.List(ctx, "projects/")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	names := childDocs(objs, "projects/")
	sort.Strings(names)

	projects := make([]models.Project, 0, len(names))
	for _, name := range names {
		p, err := ps.Get(ctx, name)
		if err != nil {
			slog.Warn("skipping unreadable project", "project", name, "error", err)
			continue
		}
		projects = append(projects, *p)
	}
	return projects, nil
}

// Update loads a project, applies fn, and writes the whole document back.
// The name cannot be changed.
func (ps *ProjectStore) Update(ctx context.Context, name string, fn func(p *models.Project) error) (*models.Project, error) {
	key := projectKey(name)
	unlock := ps.locks.lock(key)
	defer unlock()

	p, err := ps.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.Name = name
	p.Touch(ps.now())
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := putJSON(ctx, ps.s, key, p); err != nil {
		return nil, fmt.Errorf("update project %q: %w", name, err)
	}
	return p, nil
}

// Delete removes the project document and cascades to every campaign,
// request, reference, generated asset, log, and uploaded reference image
// stored under the project.
func (ps *ProjectStore) Delete(ctx context.Context, name string) error {
	if err := models.ValidateName("project", name); err != nil {
		return err
	}
	key := projectKey(name)
	unlock := ps.locks.lock(key)
	defer unlock()

	if err := ps.s.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return fmt.Errorf("project %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("delete project %q: %w", name, err)
	}

	prefixes := []string{
		projectPrefix(name),
		AssetPrefix(name, ""),
		LogPrefix(name, ""),
		"references/" + name + "/",
	}
	for _, prefix := range prefixes {
		n, err := storage.DeleteAll(ctx, ps.s, prefix)
		if err != nil {
			return fmt.Errorf("delete project %q: %w", name, err)
		}
		if n > 0 {
			slog.Debug("project cascade delete", "project", name, "prefix", prefix, "objects", n)
		}
	}
	return nil
}
