// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"

	"brandshot/internal/models"
	"brandshot/internal/storage"
)

// ReferenceStore handles the campaign-tier reference collection, kept as
// one references.json document per campaign. Project-tier approvals live
// inside the project document instead.
type ReferenceStore struct {
	s     storage.Store
	locks keyLocks
}

// NewReferenceStore creates a new ReferenceStore backed by s.
func NewReferenceStore(s storage.Store) *ReferenceStore {
	return &ReferenceStore{s: s}
}

// List returns the campaign's references in stored order. A campaign with
// no references yet yields an empty list.
func (rs *ReferenceStore) List(ctx context.Context, project, campaign string) ([]models.Reference, error) {
	if err := requireCampaign(ctx, rs.s, project, campaign); err != nil {
		return nil, err
	}
	return rs.load(ctx, project, campaign)
}

func (rs *ReferenceStore) load(ctx context.Context, project, campaign string) ([]models.Reference, error) {
	var refs []models.Reference
	err := getJSON(ctx, rs.s, referencesKey(project, campaign), &refs)
	if errors.Is(err, ErrNotFound) {
		return []models.Reference{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("campaign %q references: %w", campaign, err)
	}
	for i := range refs {
		refs[i].Tier = models.TierCampaign
	}
	return refs, nil
}

// Replace overwrites the whole collection.
func (rs *ReferenceStore) Replace(ctx context.Context, project, campaign string, refs []models.Reference) ([]models.Reference, error) {
	if err := requireCampaign(ctx, rs.s, project, campaign); err != nil {
		return nil, err
	}
	if refs == nil {
		refs = []models.Reference{}
	}
	for i := range refs {
		refs[i].Tier = models.TierCampaign
		if err := refs[i].Validate(); err != nil {
			return nil, err
		}
	}

	key := referencesKey(project, campaign)
	unlock := rs.locks.lock(key)
	defer unlock()

	if err := putJSON(ctx, rs.s, key, refs); err != nil {
		return nil, fmt.Errorf("save campaign %q references: %w", campaign, err)
	}
	return refs, nil
}

// Append adds ref to the end of the collection.
func (rs *ReferenceStore) Append(ctx context.Context, project, campaign string, ref models.Reference) ([]models.Reference, error) {
	if err := requireCampaign(ctx, rs.s, project, campaign); err != nil {
		return nil, err
	}
	ref.Tier = models.TierCampaign
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	key := referencesKey(project, campaign)
	unlock := rs.locks.lock(key)
	defer unlock()

	refs, err := rs.load(ctx, project, campaign)
	if err != nil {
		return nil, err
	}
	refs = append(refs, ref)
	if err := putJSON(ctx, rs.s, key, refs); err != nil {
		return nil, fmt.Errorf("save campaign %q references: %w", campaign, err)
	}
	return refs, nil
}
