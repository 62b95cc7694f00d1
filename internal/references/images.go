// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package references

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"brandshot/internal/models"
	"brandshot/internal/store"
)

// AttachImage records an uploaded reference image on the project (campaign
// empty) or on a campaign.
func (s *Service) AttachImage(ctx context.Context, project, campaign string, img models.ReferenceImage) error {
	if campaign == "" {
		_, err := s.projects.Update(ctx, project, func(p *models.Project) error {
			p.ReferenceImages = append(p.ReferenceImages, img)
			return nil
		})
		return err
	}
	_, err := s.campaigns.Update(ctx, project, campaign, func(c *models.Campaign) error {
		c.ReferenceImages = append(c.ReferenceImages, img)
		return nil
	})
	return err
}

// Images lists the reference images of one tier.
func (s *Service) Images(ctx context.Context, project, campaign string) ([]models.ReferenceImage, error) {
	if campaign == "" {
		p, err := s.projects.Get(ctx, project)
		if err != nil {
			return nil, err
		}
		return p.ReferenceImages, nil
	}
	c, err := s.campaigns.Get(ctx, project, campaign)
	if err != nil {
		return nil, err
	}
	return c.ReferenceImages, nil
}

// imageOwner locates a reference image by id.
type imageOwner struct {
	project  string
	campaign string // empty for the project tier
}

// findImage searches every project and campaign for the image id.
func (s *Service) findImage(ctx context.Context, id uuid.UUID) (*imageOwner, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		for _, img := range p.ReferenceImages {
			if img.ID == id {
				return &imageOwner{project: p.Name}, nil
			}
		}
		campaigns, err := s.campaigns.List(ctx, p.Name)
		if err != nil {
			return nil, err
		}
		for _, c := range campaigns {
			for _, img := range c.ReferenceImages {
				if img.ID == id {
					return &imageOwner{project: p.Name, campaign: c.Name}, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("reference image %s: %w", id, store.ErrNotFound)
}

// mutateImages applies fn to the image list that holds id.
func (s *Service) mutateImages(ctx context.Context, id uuid.UUID, fn func(imgs []models.ReferenceImage) ([]models.ReferenceImage, error)) error {
	owner, err := s.findImage(ctx, id)
	if err != nil {
		return err
	}
	if owner.campaign == "" {
		_, err = s.projects.Update(ctx, owner.project, func(p *models.Project) error {
			imgs, err := fn(p.ReferenceImages)
			p.ReferenceImages = imgs
			return err
		})
		return err
	}
	_, err = s.campaigns.Update(ctx, owner.project, owner.campaign, func(c *models.Campaign) error {
		imgs, err := fn(c.ReferenceImages)
		c.ReferenceImages = imgs
		return err
	})
	return err
}

// UpdateImage applies a metadata update to the image with id, wherever it
// is attached.
func (s *Service) UpdateImage(ctx context.Context, id uuid.UUID, upd models.ReferenceImageUpdate) (*models.ReferenceImage, error) {
	var updated models.ReferenceImage
	err := s.mutateImages(ctx, id, func(imgs []models.ReferenceImage) ([]models.ReferenceImage, error) {
		for i := range imgs {
			if imgs[i].ID != id {
				continue
			}
			if err := upd.Apply(&imgs[i]); err != nil {
				return imgs, err
			}
			updated = imgs[i]
			return imgs, nil
		}
		return imgs, fmt.Errorf("reference image %s: %w", id, store.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveImage detaches the image with id and returns the removed record so
// the caller can delete its stored bytes.
func (s *Service) RemoveImage(ctx context.Context, id uuid.UUID) (*models.ReferenceImage, error) {
	var removed models.ReferenceImage
	err := s.mutateImages(ctx, id, func(imgs []models.ReferenceImage) ([]models.ReferenceImage, error) {
		for i := range imgs {
			if imgs[i].ID == id {
				removed = imgs[i]
				return append(imgs[:i:i], imgs[i+1:]...), nil
			}
		}
		return imgs, fmt.Errorf("reference image %s: %w", id, store.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}
