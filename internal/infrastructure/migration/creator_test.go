package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/erp/platform/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add invoices table", "add_invoices_table"},
		{"Add-Invoices-Table", "add_invoices_table"},
		{"ADD_INVOICES_TABLE", "add_invoices_table"},
		{"add__kpi__index", "add_kpi_index"},
		{"Payroll Run 2", "payroll_run_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add clients", "CRM clients")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_clients.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_clients.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_clients")
	assert.Contains(t, string(up), "-- Description: CRM clients")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := CreateMigration(dir, "Add KPI index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.True(t, strings.HasSuffix(second.UpPath, "000002_add_kpi_index.up.sql"))
}

func TestCreateMigration_ContinuesAfterHighestVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000041_existing.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_older.up.sql"), nil, 0o644))

	mf, err := CreateMigration(dir, "next", "")
	require.NoError(t, err)
	assert.Equal(t, uint(42), mf.Version)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_hr.up.sql":         {},
		"000002_hr.down.sql":       {},
		"000001_accounts.up.sql":   {},
		"000001_accounts.down.sql": {},
		"000003_sales.up.sql":      {},
		"README.md":                {},
		"notes.sql":                {},
		"abc_bad.up.sql":           {},
		"nested/000009_x.up.sql":   {},
	}

	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, MigrationInfo{Version: 1, Name: "accounts", HasDown: true}, list[0])
	assert.Equal(t, MigrationInfo{Version: 2, Name: "hr", HasDown: true}, list[1])
	assert.Equal(t, MigrationInfo{Version: 3, Name: "sales", HasDown: false}, list[2])
	assert.Equal(t, "000003_sales", list[2].FileBase())
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	list, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStatus_UpToDate(t *testing.T) {
	assert.True(t, Status{Current: 6, Latest: 6}.UpToDate())
	assert.False(t, Status{Current: 5, Latest: 6, Pending: 1}.UpToDate())
	assert.False(t, Status{Current: 6, Latest: 6, Dirty: true}.UpToDate())
}

// The embedded schema is what servers apply with auto-migration on
func TestEmbeddedMigrations(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for i, m := range list {
		assert.Equal(t, uint(i+1), m.Version, "versions must be contiguous")
		assert.True(t, m.HasDown, "%s has no down migration", m.FileBase())
	}

	createTable := regexp.MustCompile(`CREATE TABLE IF NOT EXISTS (\w+)`)
	var tables []string
	for _, m := range list {
		up, err := migrations.FS.ReadFile(m.FileBase() + ".up.sql")
		require.NoError(t, err)
		down, err := migrations.FS.ReadFile(m.FileBase() + ".down.sql")
		require.NoError(t, err)

		for _, match := range createTable.FindAllStringSubmatch(string(up), -1) {
			tables = append(tables, match[1])
			assert.Contains(t, string(down), "DROP TABLE IF EXISTS "+match[1]+";",
				"%s does not drop %s", m.FileBase(), match[1])
		}
	}

	for _, table := range []string{
		"organizations", "users", "invoices", "payments", "budgets", "employees", "payrolls",
		"leave_requests", "policies", "suppliers", "purchase_orders", "procurement_requests",
		"clients", "contacts", "client_interactions", "reports", "kpis", "kpi_alerts", "dashboards",
		"analytics_events",
	} {
		assert.Contains(t, tables, table)
	}
}
