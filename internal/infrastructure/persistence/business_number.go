package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxNumberAttempts bounds the search for a free number when the latest one is already taken
const maxNumberAttempts = 100

// numberSequence generates per-tenant business numbers such as INV-2024-00007 or EMP-00012.
// The next number is derived from the highest existing one with the same prefix;
// the unique (tenant_id, column) index rejects the rare concurrent duplicate.
type numberSequence struct {
	table  string
	column string
	prefix string
	yearly bool
	now    func() time.Time
}

func newYearlySequence(table, column, prefix string) numberSequence {
	return numberSequence{table: table, column: column, prefix: prefix, yearly: true, now: time.Now}
}

func newPlainSequence(table, column, prefix string) numberSequence {
	return numberSequence{table: table, column: column, prefix: prefix, now: time.Now}
}

// Next returns the next free number for the tenant
func (s numberSequence) Next(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (string, error) {
	year := s.now().Year()
	head := s.prefix + "-"
	if s.yearly {
		head = fmt.Sprintf("%s-%d-", s.prefix, year)
	}
	format := func(seq int) string {
		if s.yearly {
			return shared.FormatBusinessNumber(s.prefix, year, seq)
		}
		return fmt.Sprintf("%s%05d", head, seq)
	}

	var last string
	err := db.WithContext(ctx).
		Table(s.table).
		Select(s.column).
		Where("tenant_id = ? AND "+s.column+" LIKE ?", tenantID, head+"%").
		Order("LENGTH(" + s.column + ") DESC, " + s.column + " DESC").
		Limit(1).
		Row().Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to read last %s: %w", s.column, err)
	}

	next := 1
	if seq, parseErr := strconv.Atoi(strings.TrimPrefix(last, head)); last != "" && parseErr == nil {
		next = seq + 1
	}

	number := format(next)
	for i := 0; i < maxNumberAttempts; i++ {
		var count int64
		if err := db.WithContext(ctx).
			Table(s.table).
			Where("tenant_id = ? AND "+s.column+" = ?", tenantID, number).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check %s: %w", s.column, err)
		}
		if count == 0 {
			return number, nil
		}
		next++
		number = format(next)
	}
	return "", fmt.Errorf("no free %s after %d attempts", s.column, maxNumberAttempts)
}
