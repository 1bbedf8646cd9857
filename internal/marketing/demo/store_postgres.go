// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(context context.Context, request *Request) error {
	const query = `
		INSERT INTO marketing.demorequest (id, name, email, contact, designation, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	_, err := repository.pool.Exec(context, query,
		request.ID,
		request.Name,
		request.Email,
		request.Contact,
		request.Designation,
		request.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_demo_repo_create_failed: %w", err)
	}

	return nil
}

/*
List returns a page of demo requests, newest first.

Description: Uses a window function so the page and the total come back in
a single round-trip.
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Request, int, error) {
	const query = `
		SELECT id, name, email, contact, designation, createdat, count(*) OVER () AS total
		FROM marketing.demorequest
		ORDER BY createdat DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_demo_repo_list_failed: %w", err)
	}

	total := 0
	requests, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Request, error) {
		request := &Request{}
		err := row.Scan(
			&request.ID,
			&request.Name,
			&request.Email,
			&request.Contact,
			&request.Designation,
			&request.CreatedAt,
			&total,
		)
		return request, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_demo_repo_list_scan_failed: %w", err)
	}

	// An offset past the end yields no rows, and therefore no window total.
	if len(requests) == 0 && offset > 0 {
		if err := repository.pool.QueryRow(context, `SELECT count(*) FROM marketing.demorequest`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("postgres_demo_repo_count_failed: %w", err)
		}
	}

	return requests, total, nil
}
