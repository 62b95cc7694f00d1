// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"brandshot/internal/models"
	"brandshot/internal/storage"
)

// AssetStore persists generated images, their generation logs, and
// housekeeping reports.
type AssetStore struct {
	s storage.Store
}

// NewAssetStore creates a new AssetStore backed by s.
func NewAssetStore(s storage.Store) *AssetStore {
	return &AssetStore{s: s}
}

// SaveImage stores a generated image and returns its key:
// assets/<project>/<campaign>/<request>/<timestamp>/image<ext>.
func (as *AssetStore) SaveImage(ctx context.Context, project, campaign, requestID string, at time.Time, contentType, ext string, data []byte) (string, error) {
	key := AssetPrefix(project, campaign) + requestID + "/" + Timestamp(at) + "/image" + ext
	if err := as.s.Put(ctx, key, contentType, data); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}

// SaveLog writes the generation log for one run:
// logs/<project>/<campaign>/<request>/<timestamp>.json.
func (as *AssetStore) SaveLog(ctx context.Context, project, campaign, requestID string, at time.Time, entry *models.GenerationLog) (string, error) {
	key := LogPrefix(project, campaign) + requestID + "/" + Timestamp(at) + ".json"
	if err := putJSON(ctx, as.s, key, entry); err != nil {
		return "", fmt.Errorf("save generation log: %w", err)
	}
	return key, nil
}

// Logs returns a request's generation logs, oldest first.
func (as *AssetStore) Logs(ctx context.Context, project, campaign, requestID string) ([]models.GenerationLog, error) {
	prefix := LogPrefix(project, campaign) + requestID + "/"
	objs, err := as.s.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list generation logs: %w", err)
	}
	logs := []models.GenerationLog{}
	for _, o := range objs {
		var entry models.GenerationLog
		if err := getJSON(ctx, as.s, o.Key, &entry); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Timestamp.Before(logs[j].Timestamp) })
	return logs, nil
}

// Open returns the bytes of a stored asset or reference image. Only keys
// under assets/ and references/ are served.
func (as *AssetStore) Open(ctx context.Context, key string) ([]byte, error) {
	if !strings.HasPrefix(key, "assets/") && !strings.HasPrefix(key, "references/") {
		return nil, fmt.Errorf("asset %q: %w", key, ErrNotFound)
	}
	data, err := as.s.Get(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, fmt.Errorf("asset %q: %w", key, ErrNotFound)
	}
	return data, err
}

// Usage summarizes how many objects and bytes sit under prefix.
func (as *AssetStore) Usage(ctx context.Context, prefix string) (count int, bytes int64, err error) {
	objs, err := as.s.List(ctx, prefix)
	if err != nil {
		return 0, 0, fmt.Errorf("usage %s: %w", prefix, err)
	}
	for _, o := range objs {
		count++
		bytes += o.Size
	}
	return count, bytes, nil
}

// SaveReport writes a JSON report to reports/<name>.json.
func (as *AssetStore) SaveReport(ctx context.Context, name string, report any) (string, error) {
	key := "reports/" + name + ".json"
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := as.s.Put(ctx, key, "application/json", data); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return key, nil
}
