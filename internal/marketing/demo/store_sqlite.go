// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package demo

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteRepository implements [Repository] on a single-file database.
// Timestamps are stored as INTEGER unix milliseconds.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a SQLite implementation of [Repository].
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create implements [Repository].
func (repository *SQLiteRepository) Create(context context.Context, request *Request) error {
	const query = `
		INSERT INTO marketing_demorequest (id, name, email, contact, designation, createdat)
		VALUES (?, ?, ?, ?, ?, ?)`

	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	request.CreatedAt = request.CreatedAt.Truncate(time.Millisecond)

	_, err := repository.db.ExecContext(context, query,
		request.ID,
		request.Name,
		request.Email,
		request.Contact,
		request.Designation,
		request.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlite_demo_repo_create_failed: %w", err)
	}

	return nil
}

// List implements [Repository].
func (repository *SQLiteRepository) List(context context.Context, limit, offset int) ([]*Request, int, error) {
	var total int
	if err := repository.db.QueryRowContext(context, `SELECT count(*) FROM marketing_demorequest`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite_demo_repo_count_failed: %w", err)
	}

	const query = `
		SELECT id, name, email, contact, designation, createdat
		FROM marketing_demorequest
		ORDER BY createdat DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := repository.db.QueryContext(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite_demo_repo_list_failed: %w", err)
	}
	defer rows.Close()

	requests := make([]*Request, 0, limit)
	for rows.Next() {
		var (
			request   Request
			createdAt int64
		)
		if err := rows.Scan(
			&request.ID,
			&request.Name,
			&request.Email,
			&request.Contact,
			&request.Designation,
			&createdAt,
		); err != nil {
			return nil, 0, fmt.Errorf("sqlite_demo_repo_list_scan_failed: %w", err)
		}
		request.CreatedAt = time.UnixMilli(createdAt).UTC()
		requests = append(requests, &request)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite_demo_repo_list_rows_failed: %w", err)
	}

	return requests, total, nil
}
