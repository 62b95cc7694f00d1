// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides the byte-level object store that holds every
// JSON document and image blob. Keys are slash-separated hierarchical paths
// (projects/<p>/campaigns/<c>.json, assets/<p>/<c>/<req>/<ts>/image.png).
// Backends: local filesystem, S3-compatible buckets, and a SQL documents
// table on PostgreSQL or SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

// ErrNotExist is returned by Get and Delete when no object has the key.
var ErrNotExist = errors.New("storage: object does not exist")

// Object describes a stored object returned by List.
type Object struct {
	Key      string
	Size     int64
	Modified time.Time
}

// Store is implemented by every storage backend.
type Store interface {
	// Get returns the object's bytes, or ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or replaces the object at key.
	Put(ctx context.Context, key, contentType string, data []byte) error
	// Delete removes the object, or returns ErrNotExist.
	Delete(ctx context.Context, key string) error
	// List returns every object whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Object, error)
}

// Presigner is implemented by backends that can hand out time-limited
// direct download URLs.
type Presigner interface {
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// CleanKey validates a key and returns its canonical form. Keys must be
// relative, slash-separated, and free of "." or ".." segments.
func CleanKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage: empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("storage: invalid key %q", key)
		}
	}
	return key, nil
}

// Join builds a key from path segments.
func Join(parts ...string) string {
	return path.Join(parts...)
}

// ContentTypeFor guesses a MIME type from the key's extension.
func ContentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// DeleteAll removes every object under prefix and returns how many were
// deleted. A missing object mid-sweep is not an error.
func DeleteAll(ctx context.Context, s Store, prefix string) (int, error) {
	objs, err := s.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range objs {
		if err := s.Delete(ctx, o.Key); err != nil && !errors.Is(err, ErrNotExist) {
			return n, fmt.Errorf("delete %s: %w", o.Key, err)
		}
		n++
	}
	return n, nil
}
