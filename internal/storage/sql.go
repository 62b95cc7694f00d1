// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Dialects understood by SQLStore.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// SQLStore keeps objects as rows of the documents table created by the
// database package migrations. Works on PostgreSQL and SQLite.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLStore wraps an open database. dialect selects the placeholder style.
func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(q string) string {
	if s.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Get returns the body of the document at key.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	var body []byte
	err = s.db.QueryRowContext(ctx, s.rebind(`SELECT body FROM documents WHERE key = ?`), key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("sql get %s: %w", key, err)
	}
	return body, nil
}

// Put upserts the document at key.
func (s *SQLStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = ContentTypeFor(key)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO documents (key, content_type, body, size, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			content_type = excluded.content_type,
			body = excluded.body,
			size = excluded.size,
			updated_at = excluded.updated_at`),
		key, contentType, data, int64(len(data)), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sql put %s: %w", key, err)
	}
	return nil
}

// Delete removes the document at key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM documents WHERE key = ?`), key)
	if err != nil {
		return fmt.Errorf("sql delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sql delete %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotExist
	}
	return nil
}

// List returns every document whose key starts with prefix.
func (s *SQLStore) List(ctx context.Context, prefix string) ([]Object, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT key, size, updated_at FROM documents
		WHERE key LIKE ? ESCAPE '\'
		ORDER BY key`),
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("sql list %s: %w", prefix, err)
	}
	defer rows.Close()

	var objs []Object
	for rows.Next() {
		var o Object
		var updated int64
		if err := rows.Scan(&o.Key, &o.Size, &updated); err != nil {
			return nil, fmt.Errorf("sql list scan: %w", err)
		}
		// SQLite LIKE is case-insensitive for ASCII.
		if !strings.HasPrefix(o.Key, prefix) {
			continue
		}
		o.Modified = time.UnixMilli(updated)
		objs = append(objs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sql list %s: %w", prefix, err)
	}

	// Collation-aware ORDER BY differs between engines; sort bytewise.
	sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })
	return objs, nil
}

// escapeLike escapes LIKE wildcards so prefix matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
