/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DocumentInfo is the listing projection returned by the documents API.
type DocumentInfo struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// SearchDocumentsPG lists library documents, optionally filtered by a
// case-insensitive name substring, newest first.
func SearchDocumentsPG(ctx context.Context, db *sql.DB, nameQuery string, limit, offset int) ([]DocumentInfo, error) {
	var (
		args []any
		b    strings.Builder
	)
	place := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	b.WriteString("SELECT id, stable_id, name, updated_at, version FROM documents ")
	if s := strings.TrimSpace(nameQuery); s != "" {
		b.WriteString("WHERE lower(name) LIKE " + place("%"+strings.ToLower(s)+"%") + " ")
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	b.WriteString("ORDER BY updated_at DESC, id DESC ")
	b.WriteString("LIMIT " + place(limit) + " OFFSET " + place(offset))

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search pg query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		if err := rows.Scan(&d.ID, &d.StableID, &d.Name, &d.UpdatedAt, &d.Version); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
