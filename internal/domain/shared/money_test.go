package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		rate     string
		expected string
	}{
		{"ten percent", "100", "10", "10"},
		{"rounds half up", "0.05", "50", "0.03"},
		{"zero rate", "123.45", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(decimal.RequireFromString(tt.value), decimal.RequireFromString(tt.rate))
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestPercentChange(t *testing.T) {
	change, ok := PercentChange(decimal.NewFromInt(80), decimal.NewFromInt(100))
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(25).Equal(change))

	change, ok = PercentChange(decimal.NewFromInt(200), decimal.NewFromInt(150))
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(-25).Equal(change))

	_, ok = PercentChange(decimal.Zero, decimal.NewFromInt(5))
	assert.False(t, ok)
}

func TestFormatBusinessNumber(t *testing.T) {
	assert.Equal(t, "INV-2024-00007", FormatBusinessNumber("INV", 2024, 7))
	assert.Equal(t, "PO-2026-12345", FormatBusinessNumber("PO", 2026, 12345))
}

func TestFilter_Set(t *testing.T) {
	f := DefaultFilter()
	empty := ""
	yes := true

	f.Set("status", "")
	f.Set("client_name", &empty)
	f.Set("is_overdue", (*bool)(nil))
	assert.Empty(t, f.Filters)

	f.Set("status", "sent")
	f.Set("is_overdue", &yes)
	assert.Equal(t, "sent", f.Filters["status"])
	assert.Equal(t, true, f.Filters["is_overdue"])
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPaginated([]int{}, 0, 1, 0)
	assert.Equal(t, 0, p.TotalPages)
}

func TestPageParams_Filter(t *testing.T) {
	f := PageParams{Page: 3, PageSize: 1000, OrderBy: "name", OrderDir: "asc", Search: "acme"}.Filter()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, "name", f.OrderBy)
	assert.Equal(t, "asc", f.OrderDir)
	assert.Equal(t, "acme", f.Search)
	assert.Equal(t, 200, f.Offset())

	defaults := PageParams{}.Filter()
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, 20, defaults.PageSize)
	assert.Equal(t, "created_at", defaults.OrderBy)
}

func TestDecimalParam(t *testing.T) {
	d, err := DecimalParam("total_min", "")
	assert.NoError(t, err)
	assert.Nil(t, d)

	d, err = DecimalParam("total_min", "12.50")
	assert.NoError(t, err)
	if assert.NotNil(t, d) {
		assert.Equal(t, "12.5", d.String())
	}

	d, err = DecimalParam("total_min", "abc")
	assert.Nil(t, d)
	var ve *ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, []FieldError{{Field: "total_min", Message: "Must be a number"}}, ve.Fields)
	}
}

func TestFilter_SetDecimal(t *testing.T) {
	f := PageParams{}.Filter()
	errs := &ValidationError{}
	f.SetDecimal(errs, "total_min", "100")
	f.SetDecimal(errs, "total_max", "lots")
	f.SetDecimal(errs, "net_min", "")
	f.SetDecimal(errs, "net_max", "1e")

	assert.True(t, f.Filters["total_min"].(decimal.Decimal).Equal(decimal.NewFromInt(100)))
	assert.NotContains(t, f.Filters, "total_max")
	assert.NotContains(t, f.Filters, "net_min")
	if assert.Len(t, errs.Fields, 2) {
		assert.Equal(t, "total_max", errs.Fields[0].Field)
		assert.Equal(t, "net_max", errs.Fields[1].Field)
	}
}
