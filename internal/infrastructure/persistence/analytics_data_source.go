package persistence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Invoice statuses that count as billed revenue
var billedInvoiceStatuses = []finance.InvoiceStatus{
	finance.InvoiceStatusSent, finance.InvoiceStatusPartiallyPaid,
	finance.InvoiceStatusPaid, finance.InvoiceStatusOverdue,
}

// Invoice statuses with money still owed
var openInvoiceStatuses = []finance.InvoiceStatus{
	finance.InvoiceStatusSent, finance.InvoiceStatusPartiallyPaid, finance.InvoiceStatusOverdue,
}

// Purchase order statuses still waiting for goods
var openPOStatuses = []purchasing.PurchaseOrderStatus{
	purchasing.PurchaseOrderStatusPendingApproval, purchasing.PurchaseOrderStatusApproved,
	purchasing.PurchaseOrderStatusPartiallyReceived,
}

// Purchase order statuses excluded from spend figures
var voidPOStatuses = []purchasing.PurchaseOrderStatus{
	purchasing.PurchaseOrderStatusDraft, purchasing.PurchaseOrderStatusRejected,
	purchasing.PurchaseOrderStatusCancelled,
}

// GormAnalyticsDataSource computes reports and KPI values with SQL aggregations
// over the business tables. Every query is scoped to one tenant.
type GormAnalyticsDataSource struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormAnalyticsDataSource creates a new GormAnalyticsDataSource
func NewGormAnalyticsDataSource(db *gorm.DB) *GormAnalyticsDataSource {
	return &GormAnalyticsDataSource{db: db, now: time.Now}
}

// Run executes the report of the given type.
//
// Date ranged reports read date_from and date_to (YYYY-MM-DD) and default to the
// current calendar year. invoice_aging reads as_of, budget_utilization reads fiscal_year.
func (s *GormAnalyticsDataSource) Run(ctx context.Context, tenantID uuid.UUID, reportType analytics.ReportType, params map[string]any) (*analytics.ReportResult, error) {
	var (
		result *analytics.ReportResult
		err    error
	)
	switch reportType {
	case analytics.ReportTypeSalesSummary:
		result, err = s.salesSummary(ctx, tenantID, params)
	case analytics.ReportTypeInvoiceAging:
		result, err = s.invoiceAging(ctx, tenantID, params)
	case analytics.ReportTypePayrollSummary:
		result, err = s.payrollSummary(ctx, tenantID, params)
	case analytics.ReportTypePurchaseSummary:
		result, err = s.purchaseSummary(ctx, tenantID, params)
	case analytics.ReportTypeBudgetUtilization:
		result, err = s.budgetUtilization(ctx, tenantID, params)
	case analytics.ReportTypeKPISnapshot:
		result, err = s.kpiSnapshot(ctx, tenantID)
	default:
		return nil, shared.NewValidationError("report_type", fmt.Sprintf("Unsupported report type %q", reportType))
	}
	if err != nil {
		return nil, err
	}
	result.ReportType = reportType
	result.GeneratedAt = s.now().UTC()
	return result, nil
}

func (s *GormAnalyticsDataSource) salesSummary(ctx context.Context, tenantID uuid.UUID, params map[string]any) (*analytics.ReportResult, error) {
	from, to, err := s.dateRange(params)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Period        string
		InvoiceCount  int64
		TotalInvoiced decimal.Decimal
		TotalPaid     decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Table("invoices").
		Select(`TO_CHAR(issue_date, 'YYYY-MM') AS period,
			COUNT(*) AS invoice_count,
			COALESCE(SUM(total_amount), 0) AS total_invoiced,
			COALESCE(SUM(paid_amount), 0) AS total_paid`).
		Where("tenant_id = ? AND status IN ?", tenantID, billedInvoiceStatuses).
		Where("issue_date BETWEEN ? AND ?", from, to).
		Group("TO_CHAR(issue_date, 'YYYY-MM')").
		Order("period ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := &analytics.ReportResult{
		Columns: []string{"period", "invoice_count", "total_invoiced", "total_paid", "outstanding"},
		Rows:    make([]map[string]any, 0, len(rows)),
	}
	var count int64
	invoiced, paid := decimal.Zero, decimal.Zero
	for _, r := range rows {
		result.Rows = append(result.Rows, map[string]any{
			"period":         r.Period,
			"invoice_count":  r.InvoiceCount,
			"total_invoiced": r.TotalInvoiced,
			"total_paid":     r.TotalPaid,
			"outstanding":    r.TotalInvoiced.Sub(r.TotalPaid),
		})
		count += r.InvoiceCount
		invoiced = invoiced.Add(r.TotalInvoiced)
		paid = paid.Add(r.TotalPaid)
	}
	result.Totals = map[string]any{
		"date_from":      from.Format(time.DateOnly),
		"date_to":        to.Format(time.DateOnly),
		"invoice_count":  count,
		"total_invoiced": invoiced,
		"total_paid":     paid,
		"outstanding":    invoiced.Sub(paid),
	}
	return result, nil
}

// agingBuckets are the invoice_aging rows in display order
var agingBuckets = []string{"current", "1-30", "31-60", "61-90", "90+"}

func (s *GormAnalyticsDataSource) invoiceAging(ctx context.Context, tenantID uuid.UUID, params map[string]any) (*analytics.ReportResult, error) {
	asOf, err := dateParam(params, "as_of", truncateToDay(s.now()))
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Bucket       string
		InvoiceCount int64
		Outstanding  decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Table("invoices").
		Select(`CASE
				WHEN due_date >= ? THEN 'current'
				WHEN ?::date - due_date <= 30 THEN '1-30'
				WHEN ?::date - due_date <= 60 THEN '31-60'
				WHEN ?::date - due_date <= 90 THEN '61-90'
				ELSE '90+'
			END AS bucket,
			COUNT(*) AS invoice_count,
			COALESCE(SUM(total_amount - paid_amount), 0) AS outstanding`, asOf, asOf, asOf, asOf).
		Where("tenant_id = ? AND status IN ?", tenantID, openInvoiceStatuses).
		Group("bucket").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byBucket := make(map[string]int, len(rows))
	for i, r := range rows {
		byBucket[r.Bucket] = i
	}
	result := &analytics.ReportResult{
		Columns: []string{"bucket", "invoice_count", "outstanding"},
		Rows:    make([]map[string]any, 0, len(agingBuckets)),
	}
	var count int64
	total := decimal.Zero
	for _, bucket := range agingBuckets {
		row := map[string]any{"bucket": bucket, "invoice_count": int64(0), "outstanding": decimal.Zero}
		if i, ok := byBucket[bucket]; ok {
			row["invoice_count"] = rows[i].InvoiceCount
			row["outstanding"] = rows[i].Outstanding
			count += rows[i].InvoiceCount
			total = total.Add(rows[i].Outstanding)
		}
		result.Rows = append(result.Rows, row)
	}
	result.Totals = map[string]any{
		"as_of":         asOf.Format(time.DateOnly),
		"invoice_count": count,
		"outstanding":   total,
	}
	return result, nil
}

func (s *GormAnalyticsDataSource) payrollSummary(ctx context.Context, tenantID uuid.UUID, params map[string]any) (*analytics.ReportResult, error) {
	from, to, err := s.dateRange(params)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Department      string
		EmployeeCount   int64
		PayrollCount    int64
		GrossPay        decimal.Decimal
		TotalDeductions decimal.Decimal
		NetPay          decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Table("payrolls p").
		Select(`COALESCE(d.name, 'Unassigned') AS department,
			COUNT(DISTINCT p.employee_id) AS employee_count,
			COUNT(*) AS payroll_count,
			COALESCE(SUM(p.gross_pay), 0) AS gross_pay,
			COALESCE(SUM(p.total_deductions), 0) AS total_deductions,
			COALESCE(SUM(p.net_pay), 0) AS net_pay`).
		Joins("JOIN employees e ON e.id = p.employee_id AND e.tenant_id = p.tenant_id").
		Joins("LEFT JOIN departments d ON d.id = e.department_id AND d.tenant_id = p.tenant_id").
		Where("p.tenant_id = ? AND p.status <> ?", tenantID, hr.PayrollStatusCancelled).
		Where("p.period_start BETWEEN ? AND ?", from, to).
		Group("COALESCE(d.name, 'Unassigned')").
		Order("department ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := &analytics.ReportResult{
		Columns: []string{"department", "employee_count", "payroll_count", "gross_pay", "total_deductions", "net_pay"},
		Rows:    make([]map[string]any, 0, len(rows)),
	}
	var payrolls int64
	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range rows {
		result.Rows = append(result.Rows, map[string]any{
			"department":       r.Department,
			"employee_count":   r.EmployeeCount,
			"payroll_count":    r.PayrollCount,
			"gross_pay":        r.GrossPay,
			"total_deductions": r.TotalDeductions,
			"net_pay":          r.NetPay,
		})
		payrolls += r.PayrollCount
		gross = gross.Add(r.GrossPay)
		deductions = deductions.Add(r.TotalDeductions)
		net = net.Add(r.NetPay)
	}
	result.Totals = map[string]any{
		"date_from":        from.Format(time.DateOnly),
		"date_to":          to.Format(time.DateOnly),
		"payroll_count":    payrolls,
		"gross_pay":        gross,
		"total_deductions": deductions,
		"net_pay":          net,
	}
	return result, nil
}

func (s *GormAnalyticsDataSource) purchaseSummary(ctx context.Context, tenantID uuid.UUID, params map[string]any) (*analytics.ReportResult, error) {
	from, to, err := s.dateRange(params)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		SupplierName  string
		OrderCount    int64
		ReceivedCount int64
		TotalAmount   decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Table("purchase_orders").
		Select(`supplier_name,
			COUNT(*) AS order_count,
			COUNT(*) FILTER (WHERE status = ?) AS received_count,
			COALESCE(SUM(total_amount), 0) AS total_amount`, purchasing.PurchaseOrderStatusReceived).
		Where("tenant_id = ? AND status NOT IN ?", tenantID, voidPOStatuses).
		Where("order_date BETWEEN ? AND ?", from, to).
		Group("supplier_name").
		Order("total_amount DESC, supplier_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := &analytics.ReportResult{
		Columns: []string{"supplier_name", "order_count", "received_count", "total_amount"},
		Rows:    make([]map[string]any, 0, len(rows)),
	}
	var orders int64
	total := decimal.Zero
	for _, r := range rows {
		result.Rows = append(result.Rows, map[string]any{
			"supplier_name":  r.SupplierName,
			"order_count":    r.OrderCount,
			"received_count": r.ReceivedCount,
			"total_amount":   r.TotalAmount,
		})
		orders += r.OrderCount
		total = total.Add(r.TotalAmount)
	}
	result.Totals = map[string]any{
		"date_from":    from.Format(time.DateOnly),
		"date_to":      to.Format(time.DateOnly),
		"order_count":  orders,
		"total_amount": total,
	}
	return result, nil
}

func (s *GormAnalyticsDataSource) budgetUtilization(ctx context.Context, tenantID uuid.UUID, params map[string]any) (*analytics.ReportResult, error) {
	year, err := intParam(params, "fiscal_year", s.now().Year())
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Name        string
		Status      string
		TotalAmount decimal.Decimal
		SpentAmount decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Table("budgets").
		Select("name, status, total_amount, spent_amount").
		Where("tenant_id = ? AND fiscal_year = ? AND status <> ?", tenantID, year, finance.BudgetStatusCancelled).
		Order("name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := &analytics.ReportResult{
		Columns: []string{"name", "status", "total_amount", "spent_amount", "remaining_amount", "utilization_percentage"},
		Rows:    make([]map[string]any, 0, len(rows)),
	}
	planned, spent := decimal.Zero, decimal.Zero
	for _, r := range rows {
		result.Rows = append(result.Rows, map[string]any{
			"name":                   r.Name,
			"status":                 r.Status,
			"total_amount":           r.TotalAmount,
			"spent_amount":           r.SpentAmount,
			"remaining_amount":       r.TotalAmount.Sub(r.SpentAmount),
			"utilization_percentage": percentage(r.SpentAmount, r.TotalAmount),
		})
		planned = planned.Add(r.TotalAmount)
		spent = spent.Add(r.SpentAmount)
	}
	result.Totals = map[string]any{
		"fiscal_year":            year,
		"total_amount":           planned,
		"spent_amount":           spent,
		"remaining_amount":       planned.Sub(spent),
		"utilization_percentage": percentage(spent, planned),
	}
	return result, nil
}

func (s *GormAnalyticsDataSource) kpiSnapshot(ctx context.Context, tenantID uuid.UUID) (*analytics.ReportResult, error) {
	var rows []struct {
		Code             string
		Name             string
		Unit             string
		CurrentValue     decimal.NullDecimal
		TargetValue      decimal.NullDecimal
		ChangePercentage decimal.NullDecimal
		OpenAlerts       int64
	}
	if err := s.db.WithContext(ctx).Table("kpis").
		Select(`code, name, unit, current_value, target_value, change_percentage,
			(SELECT COUNT(*) FROM kpi_alerts a
				WHERE a.kpi_id = kpis.id AND a.tenant_id = kpis.tenant_id
				AND a.status IN ?) AS open_alerts`,
			[]analytics.AlertStatus{analytics.AlertStatusActive, analytics.AlertStatusAcknowledged}).
		Where("tenant_id = ? AND status = ?", tenantID, analytics.StatusActive).
		Order("code ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := &analytics.ReportResult{
		Columns: []string{"code", "name", "unit", "current_value", "target_value", "change_percentage", "open_alerts"},
		Rows:    make([]map[string]any, 0, len(rows)),
	}
	var alerts int64
	for _, r := range rows {
		result.Rows = append(result.Rows, map[string]any{
			"code":              r.Code,
			"name":              r.Name,
			"unit":              r.Unit,
			"current_value":     nullable(r.CurrentValue),
			"target_value":      nullable(r.TargetValue),
			"change_percentage": nullable(r.ChangePercentage),
			"open_alerts":       r.OpenAlerts,
		})
		alerts += r.OpenAlerts
	}
	result.Totals = map[string]any{
		"kpi_count":   len(rows),
		"open_alerts": alerts,
	}
	return result, nil
}

// Compute evaluates a built-in KPI source for the tenant
func (s *GormAnalyticsDataSource) Compute(ctx context.Context, tenantID uuid.UUID, source analytics.DataSource) (decimal.Decimal, error) {
	db := s.db.WithContext(ctx)
	switch source {
	case analytics.DataSourceRevenueTotal:
		return sumDecimal(db.Table("invoices").
			Select("COALESCE(SUM(total_amount), 0)").
			Where("tenant_id = ? AND status IN ?", tenantID, billedInvoiceStatuses))
	case analytics.DataSourceOutstandingReceivables:
		return sumDecimal(db.Table("invoices").
			Select("COALESCE(SUM(total_amount - paid_amount), 0)").
			Where("tenant_id = ? AND status IN ?", tenantID, openInvoiceStatuses))
	case analytics.DataSourceCollectionRate:
		var row struct {
			Billed decimal.Decimal
			Paid   decimal.Decimal
		}
		if err := db.Table("invoices").
			Select("COALESCE(SUM(total_amount), 0) AS billed, COALESCE(SUM(paid_amount), 0) AS paid").
			Where("tenant_id = ? AND status IN ?", tenantID, billedInvoiceStatuses).
			Scan(&row).Error; err != nil {
			return decimal.Zero, err
		}
		return percentage(row.Paid, row.Billed), nil
	case analytics.DataSourceOpenPurchaseOrders:
		var count int64
		if err := db.Table("purchase_orders").
			Where("tenant_id = ? AND status IN ?", tenantID, openPOStatuses).
			Count(&count).Error; err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(count), nil
	case analytics.DataSourceHeadcount:
		var count int64
		if err := db.Table("employees").
			Where("tenant_id = ? AND status <> ?", tenantID, hr.EmployeeStatusTerminated).
			Count(&count).Error; err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(count), nil
	case analytics.DataSourcePayrollCost:
		from, to := s.currentMonth()
		return sumDecimal(db.Table("payrolls").
			Select("COALESCE(SUM(gross_pay), 0)").
			Where("tenant_id = ? AND status IN ?", tenantID,
				[]hr.PayrollStatus{hr.PayrollStatusApproved, hr.PayrollStatusPaid}).
			Where("period_start BETWEEN ? AND ?", from, to))
	default:
		return decimal.Zero, shared.NewValidationError("data_source", fmt.Sprintf("Unsupported data source %q", source))
	}
}

func (s *GormAnalyticsDataSource) currentMonth() (time.Time, time.Time) {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func (s *GormAnalyticsDataSource) dateRange(params map[string]any) (time.Time, time.Time, error) {
	year := s.now().Year()
	from, err := dateParam(params, "date_from", time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := dateParam(params, "date_to", time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, shared.NewValidationError("date_to", "date_to cannot be before date_from")
	}
	return from, to, nil
}

func sumDecimal(query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// percentage returns part/whole*100 rounded to two places, zero when whole is zero
func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func nullable(v decimal.NullDecimal) any {
	if !v.Valid {
		return nil
	}
	return v.Decimal
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dateParam reads a YYYY-MM-DD or RFC 3339 parameter
func dateParam(params map[string]any, key string, fallback time.Time) (time.Time, error) {
	raw, ok := params[key]
	if !ok || raw == nil || raw == "" {
		return fallback, nil
	}
	str, ok := raw.(string)
	if !ok {
		return time.Time{}, shared.NewValidationError(key, "Must be a date string")
	}
	if t, err := time.Parse(time.DateOnly, str); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, shared.NewValidationError(key, "Must be a date in YYYY-MM-DD format")
	}
	return truncateToDay(t), nil
}

// intParam reads an integer parameter that may arrive as a JSON number or string
func intParam(params map[string]any, key string, fallback int) (int, error) {
	raw, ok := params[key]
	if !ok || raw == nil || raw == "" {
		return fallback, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, shared.NewValidationError(key, "Must be an integer")
		}
		return n, nil
	default:
		return 0, shared.NewValidationError(key, "Must be an integer")
	}
}

var (
	_ analytics.ReportDataSource = (*GormAnalyticsDataSource)(nil)
	_ analytics.KPIDataSource    = (*GormAnalyticsDataSource)(nil)
)
