// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acceleott/acceleott/internal/platform/dberr"
)

// # Account Repository (PostgreSQL)

const postgresAccountColumns = `
	id, name, email, passwordhash, phone, occupation, source,
	emailverified, verifytokenhash, verifytokenexpiresat, createdat, updatedat`

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a PostgreSQL implementation of [AccountRepository].
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create persists a new account into the users.account table.

Description: Initializes timestamps if not provided. The UNIQUE constraint
on email is the final word on duplicates, so concurrent registrations of
the same address resolve to exactly one row.

Returns:
  - error: [ErrEmailTaken] or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	const query = `
		INSERT INTO users.account (` + postgresAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = account.CreatedAt

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Phone,
		account.Occupation,
		account.Source,
		account.EmailVerified,
		account.VerifyTokenHash,
		account.VerifyTokenExpiresAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID implements [AccountRepository].
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	const query = `SELECT ` + postgresAccountColumns + ` FROM users.account WHERE id = $1`
	return repository.findOne(context, "find_by_id", query, id)
}

// FindByEmail implements [AccountRepository].
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	const query = `SELECT ` + postgresAccountColumns + ` FROM users.account WHERE email = $1`
	return repository.findOne(context, "find_by_email", query, email)
}

// FindByVerifyTokenHash implements [AccountRepository].
func (repository *PostgresAccountRepository) FindByVerifyTokenHash(context context.Context, hash string) (*Account, error) {
	const query = `SELECT ` + postgresAccountColumns + ` FROM users.account WHERE verifytokenhash = $1`
	return repository.findOne(context, "find_by_verify_token", query, hash)
}

/*
SetVerifyToken replaces the outstanding link of an unverified account.

Returns:
  - error: [ErrAccountNotFound] if the account is missing or already verified
*/
func (repository *PostgresAccountRepository) SetVerifyToken(context context.Context, id, hash string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET verifytokenhash = $2, verifytokenexpiresat = $3, updatedat = now()
		WHERE id = $1 AND emailverified = FALSE`

	tag, err := repository.pool.Exec(context, query, id, hash, expiresAt)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_set_verify_token_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

/*
MarkVerified consumes the token in a single conditional UPDATE.

Description: The WHERE clause pins the expected hash, so of two concurrent
verifications only one can succeed.

Returns:
  - error: [ErrTokenConsumed] when no row still carries expectedHash
*/
func (repository *PostgresAccountRepository) MarkVerified(context context.Context, id, expectedHash string) error {
	const query = `
		UPDATE users.account
		SET emailverified = TRUE, verifytokenhash = NULL, verifytokenexpiresat = NULL, updatedat = now()
		WHERE id = $1 AND verifytokenhash = $2`

	tag, err := repository.pool.Exec(context, query, id, expectedHash)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_mark_verified_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenConsumed
	}

	return nil
}

func (repository *PostgresAccountRepository) findOne(context context.Context, operation, query string, argument string) (*Account, error) {
	account, err := scanPostgresAccount(repository.pool.QueryRow(context, query, argument))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("postgres_account_repo_%s_failed: %w", operation, err)
	}
	return account, nil
}

func scanPostgresAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Phone,
		&account.Occupation,
		&account.Source,
		&account.EmailVerified,
		&account.VerifyTokenHash,
		&account.VerifyTokenExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}
