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

// CampaignStore handles campaign documents, which live under their project.
type CampaignStore struct {
	s     storage.Store
	now   Clock
	locks keyLocks
}

// NewCampaignStore creates a new CampaignStore backed by s.
func NewCampaignStore(s storage.Store) *CampaignStore {
	return &CampaignStore{s: s, now: time.Now}
}

// requireProject returns ErrNotFound unless the project document exists.
func requireProject(ctx context.Context, s storage.Store, project string) error {
	if err := models.ValidateName("project", project); err != nil {
		return err
	}
	found, err := exists(ctx, s, projectKey(project))
	if err != nil {
		return fmt.Errorf("project %q: %w", project, err)
	}
	if !found {
		return fmt.Errorf("project %q: %w", project, ErrNotFound)
	}
	return nil
}

// Create validates and persists a new campaign in project.
func (cs *CampaignStore) Create(ctx context.Context, project string, c *models.Campaign) error {
	if err := requireProject(ctx, cs.s, project); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	key := campaignKey(project, c.Name)
	unlock := cs.locks.lock(key)
	defer unlock()

	found, err := exists(ctx, cs.s, key)
	if err != nil {
		return fmt.Errorf("create campaign %q: %w", c.Name, err)
	}
	if found {
		return fmt.Errorf("campaign %q: %w", c.Name, ErrExists)
	}

	c.Prepare(cs.now())
	if err := putJSON(ctx, cs.s, key, c); err != nil {
		return fmt.Errorf("create campaign %q: %w", c.Name, err)
	}
	return nil
}

// Get loads a campaign.
func (cs *CampaignStore) Get(ctx context.Context, project, name string) (*models.Campaign, error) {
	if err := models.ValidateName("project", project); err != nil {
		return nil, err
	}
	if err := models.ValidateName("campaign", name); err != nil {
		return nil, err
	}
	var c models.Campaign
	if err := getJSON(ctx, cs.s, campaignKey(project, name), &c); err != nil {
		return nil, fmt.Errorf("campaign %q: %w", name, err)
	}
	return &c, nil
}

// List returns the campaigns of a project sorted by name.
func (cs *CampaignStore) List(ctx context.Context, project string) ([]models.Campaign, error) {
	if err := requireProject(ctx, cs.s, project); err != nil {
		return nil, err
	}
	prefix := campaignsPrefix(project)
	objs, err := cs.s.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	names := childDocs(objs, prefix)
	sort.Strings(names)

	campaigns := make([]models.Campaign, 0, len(names))
	for _, name := range names {
		c, err := cs.Get(ctx, project, name)
		if err != nil {
			slog.Warn("skipping unreadable campaign", "project", project, "campaign", name, "error", err)
			continue
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, nil
}

// Update loads a campaign, applies fn, and writes the whole document back.
func (cs *CampaignStore) Update(ctx context.Context, project, name string, fn func(c *models.Campaign) error) (*models.Campaign, error) {
	key := campaignKey(project, name)
	unlock := cs.locks.lock(key)
	defer unlock()

	c, err := cs.Get(ctx, project, name)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	c.Name = name
	c.Touch(cs.now())
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := putJSON(ctx, cs.s, key, c); err != nil {
		return nil, fmt.Errorf("update campaign %q: %w", name, err)
	}
	return c, nil
}

// Delete removes a campaign and everything stored beneath it.
func (cs *CampaignStore) Delete(ctx context.Context, project, name string) error {
	if err := models.ValidateName("campaign", name); err != nil {
		return err
	}
	if err := requireProject(ctx, cs.s, project); err != nil {
		return err
	}
	if err := cs.s.Delete(ctx, campaignKey(project, name)); err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return fmt.Errorf("campaign %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("delete campaign %q: %w", name, err)
	}
	for _, prefix := range []string{
		campaignPrefix(project, name),
		AssetPrefix(project, name),
		LogPrefix(project, name),
		ReferenceImagePrefix(project, name),
	} {
		if _, err := storage.DeleteAll(ctx, cs.s, prefix); err != nil {
			return fmt.Errorf("delete campaign %q: %w", name, err)
		}
	}
	return nil
}
