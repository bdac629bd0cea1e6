package persistence

import (
	"strings"

	"github.com/erp/platform/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// applyPaging orders and paginates a list query. Unknown sort fields fall back to defaultField.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// CommonSortFields contains the columns every aggregate table has
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// withCommon returns the common fields plus the given ones
func withCommon(fields ...string) map[string]bool {
	return sortFields(CommonSortFields, fields)
}

// withRecord is withCommon for append-only tables, which have no updated_at
func withRecord(fields ...string) map[string]bool {
	return sortFields(map[string]bool{"id": true, "created_at": true}, fields)
}

func sortFields(base map[string]bool, fields []string) map[string]bool {
	allowed := make(map[string]bool, len(base)+len(fields))
	for f := range base {
		allowed[f] = true
	}
	for _, f := range fields {
		allowed[f] = true
	}
	return allowed
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = withCommon("email", "username", "first_name", "last_name", "role", "status", "last_login_at")

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = withCommon("invoice_number", "client_name", "issue_date", "due_date",
	"total_amount", "paid_amount", "status")

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = withCommon("payment_number", "payment_date", "amount", "method")

// BudgetSortFields contains allowed sort fields for budgets
var BudgetSortFields = withCommon("name", "fiscal_year", "start_date", "end_date", "total_amount",
	"spent_amount", "status")

// DepartmentSortFields contains allowed sort fields for departments
var DepartmentSortFields = withCommon("name", "code")

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = withCommon("employee_number", "first_name", "last_name", "hire_date",
	"base_salary", "status", "position")

// PayrollSortFields contains allowed sort fields for payrolls
var PayrollSortFields = withCommon("payroll_number", "period_start", "period_end", "gross_pay", "net_pay", "status")

// LeaveRequestSortFields contains allowed sort fields for leave requests
var LeaveRequestSortFields = withCommon("start_date", "end_date", "days", "leave_type", "status")

// PolicySortFields contains allowed sort fields for policies
var PolicySortFields = withCommon("title", "category", "policy_version", "effective_date", "status")

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = withCommon("code", "name", "status", "rating", "payment_terms_days")

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = withCommon("po_number", "supplier_name", "order_date", "expected_delivery_date",
	"total_amount", "status")

// ProcurementRequestSortFields contains allowed sort fields for procurement requests
var ProcurementRequestSortFields = withCommon("request_number", "title", "priority", "estimated_cost",
	"needed_by", "status")

// SupplierPerformanceSortFields contains allowed sort fields for supplier evaluations
var SupplierPerformanceSortFields = withRecord("period_start", "period_end", "overall_score")

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = withCommon("name", "client_type", "industry", "status", "credit_limit")

// InteractionSortFields contains allowed sort fields for client interactions
var InteractionSortFields = withRecord("occurred_at", "scheduled_at", "interaction_type", "follow_up_date")

// ReportSortFields contains allowed sort fields for reports
var ReportSortFields = withCommon("name", "report_type", "schedule", "next_run_at", "last_run_at", "status")

// KPISortFields contains allowed sort fields for KPIs
var KPISortFields = withCommon("name", "code", "category", "current_value", "change_percentage",
	"last_calculated_at", "status")

// KPIMeasurementSortFields contains allowed sort fields for KPI measurements
var KPIMeasurementSortFields = withRecord("measured_at", "value")

// KPIAlertSortFields contains allowed sort fields for KPI alerts
var KPIAlertSortFields = withCommon("triggered_at", "severity", "status", "value")

// DashboardSortFields contains allowed sort fields for dashboards
var DashboardSortFields = withCommon("name", "status")

// AnalyticsEventSortFields contains allowed sort fields for analytics events
var AnalyticsEventSortFields = withRecord("occurred_at", "event_type", "entity_type")

// PolicyAcknowledgmentSortFields contains allowed sort fields for policy acknowledgments
var PolicyAcknowledgmentSortFields = withRecord("acknowledged_at", "policy_version")
