package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/partsdesk/partsdesk/internal/models"
)

// MapPostgresError translates driver errors into the model error taxonomy.
// Unique violations are attributed to the offending field via the
// constraint name, which is what makes the storage-level index the
// authoritative uniqueness guard rather than the application pre-check.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return &models.ConflictError{Field: conflictField(pgErr.ConstraintName)}
		case "23503": // foreign_key_violation
			return models.ErrBadRequest
		case "23502": // not_null_violation
			return models.ErrBadRequest
		}
	}

	return err
}

// conflictField maps a unique-index name to the API field it protects.
func conflictField(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "email"
	case strings.Contains(constraint, "company_tax"):
		return "companyName"
	case strings.Contains(constraint, "tax_id"):
		return "taxId"
	case strings.Contains(constraint, "oem_number"):
		return "oemNumber"
	case strings.Contains(constraint, "verification_token"):
		return "verificationToken"
	default:
		return ""
	}
}

func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
