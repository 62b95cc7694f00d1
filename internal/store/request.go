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

	"github.com/google/uuid"

	"brandshot/internal/models"
	"brandshot/internal/storage"
)

// RequestStore handles generation request documents.
type RequestStore struct {
	s     storage.Store
	now   Clock
	locks keyLocks
}

// NewRequestStore creates a new RequestStore backed by s.
func NewRequestStore(s storage.Store) *RequestStore {
	return &RequestStore{s: s, now: time.Now}
}

// requireCampaign returns ErrNotFound unless the campaign document exists.
func requireCampaign(ctx context.Context, s storage.Store, project, campaign string) error {
	if err := requireProject(ctx, s, project); err != nil {
		return err
	}
	if err := models.ValidateName("campaign", campaign); err != nil {
		return err
	}
	found, err := exists(ctx, s, campaignKey(project, campaign))
	if err != nil {
		return fmt.Errorf("campaign %q: %w", campaign, err)
	}
	if !found {
		return fmt.Errorf("campaign %q: %w", campaign, ErrNotFound)
	}
	return nil
}

// Create persists a new Pending request for rawPrompt.
func (rs *RequestStore) Create(ctx context.Context, project, campaign, rawPrompt string) (*models.Request, error) {
	if err := requireCampaign(ctx, rs.s, project, campaign); err != nil {
		return nil, err
	}
	r := models.NewRequest(rawPrompt, rs.now())
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := putJSON(ctx, rs.s, requestKey(project, campaign, r.ID.String()), r); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return r, nil
}

// Get loads a request.
func (rs *RequestStore) Get(ctx context.Context, project, campaign string, id uuid.UUID) (*models.Request, error) {
	if err := models.ValidateName("project", project); err != nil {
		return nil, err
	}
	if err := models.ValidateName("campaign", campaign); err != nil {
		return nil, err
	}
	var r models.Request
	if err := getJSON(ctx, rs.s, requestKey(project, campaign, id.String()), &r); err != nil {
		return nil, fmt.Errorf("request %s: %w", id, err)
	}
	return &r, nil
}

// List returns a campaign's requests, most recently updated first.
func (rs *RequestStore) List(ctx context.Context, project, campaign string) ([]models.Request, error) {
	if err := requireCampaign(ctx, rs.s, project, campaign); err != nil {
		return nil, err
	}
	prefix := requestsPrefix(project, campaign)
	objs, err := rs.s.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	var requests []models.Request
	for _, idStr := range childDocs(objs, prefix) {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		r, err := rs.Get(ctx, project, campaign, id)
		if err != nil {
			slog.Warn("skipping unreadable request", "request", idStr, "error", err)
			continue
		}
		requests = append(requests, *r)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Updated.After(requests[j].Updated)
	})
	if requests == nil {
		requests = []models.Request{}
	}
	return requests, nil
}

// Update loads a request, applies fn, and writes it back.
func (rs *RequestStore) Update(ctx context.Context, project, campaign string, id uuid.UUID, fn func(r *models.Request) error) (*models.Request, error) {
	key := requestKey(project, campaign, id.String())
	unlock := rs.locks.lock(key)
	defer unlock()

	r, err := rs.Get(ctx, project, campaign, id)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	r.ID = id
	r.Touch(rs.now())
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := putJSON(ctx, rs.s, key, r); err != nil {
		return nil, fmt.Errorf("update request %s: %w", id, err)
	}
	return r, nil
}

// SetStatus persists a status change.
func (rs *RequestStore) SetStatus(ctx context.Context, project, campaign string, id uuid.UUID, status models.RequestStatus) (*models.Request, error) {
	return rs.Update(ctx, project, campaign, id, func(r *models.Request) error {
		return r.SetStatus(status, rs.now())
	})
}

// Delete removes a request document.
func (rs *RequestStore) Delete(ctx context.Context, project, campaign string, id uuid.UUID) error {
	if err := models.ValidateName("project", project); err != nil {
		return err
	}
	if err := models.ValidateName("campaign", campaign); err != nil {
		return err
	}
	err := rs.s.Delete(ctx, requestKey(project, campaign, id.String()))
	if errors.Is(err, storage.ErrNotExist) {
		return fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete request %s: %w", id, err)
	}
	return nil
}
