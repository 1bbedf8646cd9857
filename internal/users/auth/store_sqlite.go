// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/acceleott/acceleott/internal/platform/dberr"
)

// # Account Repository (SQLite)

// Timestamps are stored as INTEGER unix milliseconds.

const sqliteAccountColumns = `
	id, name, email, passwordhash, phone, occupation, source,
	emailverified, verifytokenhash, verifytokenexpiresat, createdat, updatedat`

// SQLiteAccountRepository implements [AccountRepository] on a single-file database.
type SQLiteAccountRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteAccountRepository creates a SQLite implementation of [AccountRepository].
func NewSQLiteAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db, now: time.Now}
}

// Create implements [AccountRepository].
func (repository *SQLiteAccountRepository) Create(context context.Context, account *Account) error {
	const query = `
		INSERT INTO users_account (` + sqliteAccountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if account.CreatedAt.IsZero() {
		account.CreatedAt = repository.now().UTC()
	}
	account.CreatedAt = account.CreatedAt.Truncate(time.Millisecond)
	account.UpdatedAt = account.CreatedAt

	_, err := repository.db.ExecContext(context, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		nullString(account.Phone),
		nullString(account.Occupation),
		nullString(account.Source),
		account.EmailVerified,
		nullString(account.VerifyTokenHash),
		nullMillis(account.VerifyTokenExpiresAt),
		account.CreatedAt.UnixMilli(),
		account.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("sqlite_account_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID implements [AccountRepository].
func (repository *SQLiteAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	const query = `SELECT ` + sqliteAccountColumns + ` FROM users_account WHERE id = ?`
	return repository.findOne(context, "find_by_id", query, id)
}

// FindByEmail implements [AccountRepository].
func (repository *SQLiteAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	const query = `SELECT ` + sqliteAccountColumns + ` FROM users_account WHERE email = ?`
	return repository.findOne(context, "find_by_email", query, email)
}

// FindByVerifyTokenHash implements [AccountRepository].
func (repository *SQLiteAccountRepository) FindByVerifyTokenHash(context context.Context, hash string) (*Account, error) {
	const query = `SELECT ` + sqliteAccountColumns + ` FROM users_account WHERE verifytokenhash = ?`
	return repository.findOne(context, "find_by_verify_token", query, hash)
}

// SetVerifyToken implements [AccountRepository].
func (repository *SQLiteAccountRepository) SetVerifyToken(context context.Context, id, hash string, expiresAt time.Time) error {
	const query = `
		UPDATE users_account
		SET verifytokenhash = ?, verifytokenexpiresat = ?, updatedat = ?
		WHERE id = ? AND emailverified = 0`

	result, err := repository.db.ExecContext(context, query,
		hash, expiresAt.UnixMilli(), repository.now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("sqlite_account_repo_set_verify_token_failed: %w", err)
	}

	return requireAffected(result, ErrAccountNotFound)
}

// MarkVerified implements [AccountRepository].
func (repository *SQLiteAccountRepository) MarkVerified(context context.Context, id, expectedHash string) error {
	const query = `
		UPDATE users_account
		SET emailverified = 1, verifytokenhash = NULL, verifytokenexpiresat = NULL, updatedat = ?
		WHERE id = ? AND verifytokenhash = ?`

	result, err := repository.db.ExecContext(context, query, repository.now().UnixMilli(), id, expectedHash)
	if err != nil {
		return fmt.Errorf("sqlite_account_repo_mark_verified_failed: %w", err)
	}

	return requireAffected(result, ErrTokenConsumed)
}

func (repository *SQLiteAccountRepository) findOne(context context.Context, operation, query, argument string) (*Account, error) {
	var (
		account                              Account
		phone, occupation, source, tokenHash sql.NullString
		emailVerified                        int64
		tokenExpiresAt                       sql.NullInt64
		createdAt, updatedAt                 int64
	)

	err := repository.db.QueryRowContext(context, query, argument).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&phone,
		&occupation,
		&source,
		&emailVerified,
		&tokenHash,
		&tokenExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("sqlite_account_repo_%s_failed: %w", operation, err)
	}

	account.Phone = stringPointer(phone)
	account.Occupation = stringPointer(occupation)
	account.Source = stringPointer(source)
	account.EmailVerified = emailVerified != 0
	account.VerifyTokenHash = stringPointer(tokenHash)
	if tokenExpiresAt.Valid {
		expiresAt := time.UnixMilli(tokenExpiresAt.Int64).UTC()
		account.VerifyTokenExpiresAt = &expiresAt
	}
	account.CreatedAt = time.UnixMilli(createdAt).UTC()
	account.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &account, nil
}

// # Column Helpers

func requireAffected(result sql.Result, missing error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite_rows_affected_failed: %w", err)
	}
	if affected == 0 {
		return missing
	}
	return nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value.UnixMilli(), Valid: true}
}

func stringPointer(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}
