package persistence

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestValidateSortOrder(t *testing.T) {
	for in, want := range map[string]string{
		"asc":                      "ASC",
		"  ASC ":                   "ASC",
		"desc":                     "DESC",
		"":                         "DESC",
		"sideways":                 "DESC",
		"ASC; DROP TABLE clients;": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(in), "order %q", in)
	}
}

func TestValidateSortField(t *testing.T) {
	allowed := withCommon("name", "credit_limit")

	tests := []struct {
		in, fallback, want string
	}{
		{"name", "created_at", "name"},
		{" credit_limit ", "created_at", "credit_limit"},
		{"", "created_at", "created_at"},
		{"NAME", "created_at", "created_at"},
		{"name desc", "created_at", "created_at"},
		{"name'--", "created_at", "created_at"},
		{"(SELECT 1)", "created_at", "created_at"},
		{"unknown", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateSortField(tt.in, allowed, tt.fallback), "field %q", tt.in)
	}
}

// Every whitelisted column must exist, or a crafted order_by turns into a 500
func TestSortFieldsExistInSchema(t *testing.T) {
	columns := schemaColumns(t)

	whitelists := map[string]map[string]bool{
		"users":                  UserSortFields,
		"invoices":               InvoiceSortFields,
		"payments":               PaymentSortFields,
		"budgets":                BudgetSortFields,
		"departments":            DepartmentSortFields,
		"employees":              EmployeeSortFields,
		"payrolls":               PayrollSortFields,
		"leave_requests":         LeaveRequestSortFields,
		"policies":               PolicySortFields,
		"policy_acknowledgments": PolicyAcknowledgmentSortFields,
		"suppliers":              SupplierSortFields,
		"supplier_performances":  SupplierPerformanceSortFields,
		"purchase_orders":        PurchaseOrderSortFields,
		"procurement_requests":   ProcurementRequestSortFields,
		"clients":                ClientSortFields,
		"client_interactions":    InteractionSortFields,
		"reports":                ReportSortFields,
		"kpis":                   KPISortFields,
		"kpi_measurements":       KPIMeasurementSortFields,
		"kpi_alerts":             KPIAlertSortFields,
		"dashboards":             DashboardSortFields,
		"analytics_events":       AnalyticsEventSortFields,
	}

	for table, allowed := range whitelists {
		cols, ok := columns[table]
		require.True(t, ok, "no CREATE TABLE for %s", table)
		for field := range allowed {
			assert.True(t, cols[field], "%s has no column %s", table, field)
		}
	}
}

var (
	createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)
	addColumnRe   = regexp.MustCompile(`ALTER TABLE (\w+)\s+ADD COLUMN (?:IF NOT EXISTS )?(\w+)`)
	columnLineRe  = regexp.MustCompile(`^\s*(\w+)\s`)
)

func schemaColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	files, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	columns := make(map[string]map[string]bool)
	for _, f := range files {
		body, err := migrations.FS.ReadFile(f)
		require.NoError(t, err)

		for _, m := range createTableRe.FindAllStringSubmatch(string(body), -1) {
			cols := make(map[string]bool)
			for _, line := range strings.Split(m[2], "\n") {
				col := columnLineRe.FindStringSubmatch(line)
				if col == nil {
					continue
				}
				switch strings.ToUpper(col[1]) {
				case "CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN", "EXCLUDE":
					continue
				}
				cols[col[1]] = true
			}
			columns[m[1]] = cols
		}
		for _, m := range addColumnRe.FindAllStringSubmatch(string(body), -1) {
			if columns[m[1]] == nil {
				columns[m[1]] = make(map[string]bool)
			}
			columns[m[1]][m[2]] = true
		}
	}
	return columns
}

func TestApplyPaging(t *testing.T) {
	_, dialector := mockDialector(t)
	db, err := gorm.Open(dialector, &gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: logger.Discard})
	require.NoError(t, err)

	render := func(filter shared.Filter) string {
		var rows []map[string]any
		stmt := applyPaging(db.Table("clients"), filter, ClientSortFields, "name").Find(&rows).Statement
		return stmt.SQL.String()
	}

	t.Run("whitelisted field and direction", func(t *testing.T) {
		sql := render(shared.Filter{Page: 3, PageSize: 20, OrderBy: "credit_limit", OrderDir: "asc"})
		assert.Contains(t, sql, "ORDER BY credit_limit ASC")
		assert.Regexp(t, `LIMIT \S+ OFFSET \S+`, sql)
	})

	t.Run("unknown field falls back", func(t *testing.T) {
		sql := render(shared.Filter{Page: 1, PageSize: 20, OrderBy: "password_hash"})
		assert.Contains(t, sql, "ORDER BY name DESC")
		assert.NotContains(t, sql, "password_hash")
	})

	t.Run("no page means no limit", func(t *testing.T) {
		sql := render(shared.Filter{})
		assert.NotContains(t, sql, "LIMIT")
	})
}
