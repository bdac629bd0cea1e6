package analytics

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportType selects the aggregation a report runs
type ReportType string

const (
	ReportTypeSalesSummary      ReportType = "sales_summary"
	ReportTypeInvoiceAging      ReportType = "invoice_aging"
	ReportTypePayrollSummary    ReportType = "payroll_summary"
	ReportTypePurchaseSummary   ReportType = "purchase_summary"
	ReportTypeBudgetUtilization ReportType = "budget_utilization"
	ReportTypeKPISnapshot       ReportType = "kpi_snapshot"
)

// AllReportTypes lists every supported report type
var AllReportTypes = []ReportType{
	ReportTypeSalesSummary, ReportTypeInvoiceAging, ReportTypePayrollSummary,
	ReportTypePurchaseSummary, ReportTypeBudgetUtilization, ReportTypeKPISnapshot,
}

// IsValid checks if the report type is valid
func (t ReportType) IsValid() bool {
	for _, rt := range AllReportTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// CacheType returns the result cache namespace of the report type
func (t ReportType) CacheType() string {
	return "report:" + string(t)
}

// Schedule is how often a report should be re-run by an external scheduler
type Schedule string

const (
	ScheduleNone    Schedule = "none"
	ScheduleDaily   Schedule = "daily"
	ScheduleWeekly  Schedule = "weekly"
	ScheduleMonthly Schedule = "monthly"
)

// IsValid checks if the schedule is valid
func (s Schedule) IsValid() bool {
	switch s {
	case ScheduleNone, ScheduleDaily, ScheduleWeekly, ScheduleMonthly:
		return true
	}
	return false
}

// Next returns the next run after from, or nil when unscheduled
func (s Schedule) Next(from time.Time) *time.Time {
	var next time.Time
	switch s {
	case ScheduleDaily:
		next = from.AddDate(0, 0, 1)
	case ScheduleWeekly:
		next = from.AddDate(0, 0, 7)
	case ScheduleMonthly:
		next = from.AddDate(0, 1, 0)
	default:
		return nil
	}
	return &next
}

// RecordStatus is shared by reports, KPIs and dashboards
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusArchived RecordStatus = "archived"
)

// IsValid checks if the status is valid
func (s RecordStatus) IsValid() bool {
	return s == StatusActive || s == StatusArchived
}

// String returns the string representation
func (s RecordStatus) String() string {
	return string(s)
}

// Report is a saved, parameterized aggregation query
type Report struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	ReportType  ReportType
	Parameters  map[string]any
	Schedule    Schedule
	NextRunAt   *time.Time
	LastRunAt   *time.Time
	Status      RecordStatus
}

// NewReport creates an active report
func NewReport(tenantID, createdBy uuid.UUID, name, description string, reportType ReportType, params map[string]any, schedule Schedule) (*Report, error) {
	if schedule == "" {
		schedule = ScheduleNone
	}
	if err := validateReport(name, reportType, schedule); err != nil {
		return nil, err
	}
	if params == nil {
		params = map[string]any{}
	}
	r := &Report{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Description:         description,
		ReportType:          reportType,
		Parameters:          params,
		Schedule:            schedule,
		Status:              StatusActive,
	}
	r.SetCreatedBy(createdBy)
	r.NextRunAt = schedule.Next(time.Now())
	return r, nil
}

// Update changes an active report. Changing the schedule reschedules the next run.
func (r *Report) Update(name, description string, params map[string]any, schedule Schedule) error {
	if r.Status != StatusActive {
		return shared.InvalidTransition("update report", r.Status)
	}
	if schedule == "" {
		schedule = r.Schedule
	}
	if err := validateReport(name, r.ReportType, schedule); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(name)
	r.Description = description
	if params != nil {
		r.Parameters = params
	}
	if schedule != r.Schedule {
		r.Schedule = schedule
		r.NextRunAt = schedule.Next(time.Now())
	}
	r.touch()
	return nil
}

// MarkRun records a run and advances next_run_at
func (r *Report) MarkRun(at time.Time) error {
	if r.Status != StatusActive {
		return shared.InvalidTransition("run report", r.Status)
	}
	r.LastRunAt = &at
	r.NextRunAt = r.Schedule.Next(at)
	r.touch()
	return nil
}

// IsDue returns true for active scheduled reports whose next run has passed
func (r *Report) IsDue(now time.Time) bool {
	return r.Status == StatusActive && r.NextRunAt != nil && !r.NextRunAt.After(now)
}

// Archive retires the report
func (r *Report) Archive() error {
	if r.Status == StatusArchived {
		return shared.InvalidTransition("archive report", r.Status)
	}
	r.Status = StatusArchived
	r.NextRunAt = nil
	r.touch()
	return nil
}

// Clone copies the report definition for a new owner
func (r *Report) Clone(createdBy uuid.UUID) (*Report, error) {
	params := make(map[string]any, len(r.Parameters))
	for k, v := range r.Parameters {
		params[k] = v
	}
	return NewReport(r.TenantID, createdBy, r.Name+" (Copy)", r.Description, r.ReportType, params, r.Schedule)
}

func (r *Report) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

func validateReport(name string, reportType ReportType, schedule Schedule) error {
	v := &shared.ValidationError{}
	if strings.TrimSpace(name) == "" {
		v.Add("name", "Name is required")
	}
	if !reportType.IsValid() {
		v.Add("report_type", "Invalid report type")
	}
	if !schedule.IsValid() {
		v.Add("schedule", "Invalid schedule")
	}
	return v.OrNil()
}
