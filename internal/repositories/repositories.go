// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/holocron/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// Querier is the subset of *sql.DB and *sql.Tx used by repositories.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// translateError maps SQLite constraint failures onto the shared error taxonomy.
// Errors that are not constraint failures are returned unchanged.
func translateError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %s", shared.ErrUniqueViolation, sqliteErr.Error())
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %s", shared.ErrForeignKeyViolation, sqliteErr.Error())
	case sqlite3.ErrConstraintTrigger:
		// ON DELETE RESTRICT is enforced by a trigger, so it surfaces with this code.
		if strings.Contains(sqliteErr.Error(), "FOREIGN KEY") {
			return fmt.Errorf("%w: %s", shared.ErrForeignKeyViolation, sqliteErr.Error())
		}
	case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, sqliteErr.Error())
	}
	return err
}

// notFound wraps [shared.ErrNotFound] with the entity and id, or passes other errors through.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, id, shared.ErrNotFound)
	}
	return err
}

// requireAffected turns a zero-row update or delete into [shared.ErrNotFound].
func requireAffected(result sql.Result, entity string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, shared.ErrNotFound)
	}
	return nil
}

// stringCriterion reads a non-empty string filter from criteria.
func stringCriterion(criteria map[string]any, key string) (string, bool) {
	v, ok := criteria[key].(string)
	return v, ok && v != ""
}

// idCriterion reads an integer filter from criteria, accepting int or int64.
func idCriterion(criteria map[string]any, key string) (int64, bool) {
	switch v := criteria[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// boolCriterion reads a boolean filter from criteria.
func boolCriterion(criteria map[string]any, key string) (bool, bool) {
	v, ok := criteria[key].(bool)
	return v, ok
}
