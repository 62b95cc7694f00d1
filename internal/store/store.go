// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides the repositories for projects, campaigns,
// requests, campaign references, and generated assets. Every entity is a
// JSON document in a storage.Store, keyed by its place in the hierarchy.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"brandshot/internal/storage"
)

var (
	// ErrNotFound is returned when a project, campaign, or request is absent.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when creating an entity whose name is taken.
	ErrExists = errors.New("already exists")
)

// Clock returns the current time. Stores use time.Now unless a test swaps it.
type Clock func() time.Time

// Timestamp formats t the way asset and log keys embed it: an ISO-8601
// UTC instant with ':' and '.' replaced by '-'.
func Timestamp(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s-%03dZ", t.Format("2006-01-02T15-04-05"), t.Nanosecond()/int(time.Millisecond))
}

// Key layout.

func projectKey(p string) string { return "projects/" + p + ".json" }
func projectPrefix(p string) string { return "projects/" + p + "/" }
func campaignsPrefix(p string) string { return projectPrefix(p) + "campaigns/" }
func campaignKey(p, c string) string { return campaignsPrefix(p) + c + ".json" }
func campaignPrefix(p, c string) string { return campaignsPrefix(p) + c + "/" }
func requestsPrefix(p, c string) string { return campaignPrefix(p, c) + "requests/" }
func referencesKey(p, c string) string { return campaignPrefix(p, c) + "references.json" }
func requestKey(p, c, id string) string { return requestsPrefix(p, c) + id + ".json" }

// AssetPrefix returns the key prefix of all assets generated for a
// campaign, or for a whole project when campaign is empty.
func AssetPrefix(project, campaign string) string {
	if campaign == "" {
		return "assets/" + project + "/"
	}
	return "assets/" + project + "/" + campaign + "/"
}

// LogPrefix mirrors AssetPrefix for generation logs.
func LogPrefix(project, campaign string) string {
	if campaign == "" {
		return "logs/" + project + "/"
	}
	return "logs/" + project + "/" + campaign + "/"
}

// ReferenceImagePrefix returns where uploaded reference images of a tier
// live: the project tier when campaign is empty.
func ReferenceImagePrefix(project, campaign string) string {
	if campaign == "" {
		return "references/" + project + "/project/"
	}
	return "references/" + project + "/campaigns/" + campaign + "/"
}

// childDocs returns the names of the JSON documents directly under prefix.
func childDocs(objs []storage.Object, prefix string) []string {
	var names []string
	for _, o := range objs {
		rest := strings.TrimPrefix(o.Key, prefix)
		if strings.Contains(rest, "/") || !strings.HasSuffix(rest, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(rest, ".json"))
	}
	return names
}

// getJSON loads and decodes the document at key. A missing document maps
// to ErrNotFound.
func getJSON(ctx context.Context, s storage.Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// putJSON encodes v and writes it as a whole-document replacement.
func putJSON(ctx context.Context, s storage.Store, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, "application/json", data)
}

// exists reports whether a document is present at key.
func exists(ctx context.Context, s storage.Store, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// keyLocks serializes read-modify-write cycles on a single document within
// this process. Writers in other processes still race; last write wins.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyLocks) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
