package hr

import (
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) valueobject.Date {
	t.Helper()
	d, err := valueobject.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestEmployee(t *testing.T, tenantID uuid.UUID) *hr.Employee {
	t.Helper()
	e, err := hr.NewEmployee(tenantID, "EMP-00001", hr.EmployeeDetails{
		FirstName:  "Maria",
		LastName:   "Lopez",
		Email:      "maria@acme.test",
		Position:   "Analyst",
		HireDate:   time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary: decimal.NewFromInt(4000),
	})
	require.NoError(t, err)
	e.ClearDomainEvents()
	return e
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.True(t, shared.IsValidation(err), "expected validation error, got %v", err)
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	for _, fe := range ve.Fields {
		if fe.Field == field {
			return
		}
	}
	t.Fatalf("no error on field %q in %v", field, ve.Fields)
}
