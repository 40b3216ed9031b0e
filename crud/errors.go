package crud

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateWriteErr maps integrity violations raised by inserts and updates
// to domain errors, keeping the offending constraint/table in the message.
func translateWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: duplicate value for %q: %w",
				pgErr.TableName, pgErr.ConstraintName, apperrors.ErrResourceAlreadyExists)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: referenced row is missing (%q): %w",
				pgErr.TableName, pgErr.ConstraintName, apperrors.ErrResourceDoesNotExist)
		}
	}
	return err
}

// translateDeleteErr maps a foreign-key violation on delete to
// DependentEntityExists: rows elsewhere still reference the target.
func translateDeleteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%s is still referenced by %s (%q): %w",
			pgErr.TableName, pgErr.Detail, pgErr.ConstraintName, apperrors.ErrDependentEntityExists)
	}
	return err
}

func translateGetErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrResourceDoesNotExist
	}
	return err
}
