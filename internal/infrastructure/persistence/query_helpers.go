package persistence

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE PostgreSQL reports for a unique index conflict
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a conflict on the named unique index
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// pruneItems deletes the child rows of a parent whose ids are not in keep.
// An empty keep list removes every child row.
func pruneItems(tx *gorm.DB, model any, parentColumn string, parentID uuid.UUID, keep []uuid.UUID) error {
	query := tx.Where(parentColumn+" = ?", parentID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(model).Error
}

// toString renders a filter value for use in a LIKE pattern
func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// likePattern wraps a filter value for a contains match
func likePattern(value any) string {
	return "%" + toString(value) + "%"
}
