package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells which way a KPI improves
type Direction string

const (
	DirectionHigherIsBetter Direction = "higher_is_better"
	DirectionLowerIsBetter  Direction = "lower_is_better"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionHigherIsBetter || d == DirectionLowerIsBetter
}

// DataSource names a built-in aggregation that can compute a KPI value
type DataSource string

const (
	DataSourceRevenueTotal           DataSource = "revenue_total"
	DataSourceOutstandingReceivables DataSource = "outstanding_receivables"
	DataSourceCollectionRate         DataSource = "collection_rate"
	DataSourceOpenPurchaseOrders     DataSource = "open_purchase_orders"
	DataSourceHeadcount              DataSource = "headcount"
	DataSourcePayrollCost            DataSource = "payroll_cost"
)

// IsValid checks if the data source is known. The empty source is valid and means manual entry.
func (s DataSource) IsValid() bool {
	switch s {
	case "", DataSourceRevenueTotal, DataSourceOutstandingReceivables, DataSourceCollectionRate,
		DataSourceOpenPurchaseOrders, DataSourceHeadcount, DataSourcePayrollCost:
		return true
	}
	return false
}

// Thresholds bound the acceptable range of a KPI
type Thresholds struct {
	Target   *decimal.Decimal
	Warning  *decimal.Decimal
	Critical *decimal.Decimal
}

// KPI is a tracked metric with target, warning and critical thresholds.
// A breach is value <= threshold when higher is better, value >= threshold otherwise.
type KPI struct {
	shared.TenantAggregateRoot
	Name              string
	Code              string
	Description       string
	Category          string
	Unit              string
	Direction         Direction
	TargetValue       *decimal.Decimal
	WarningThreshold  *decimal.Decimal
	CriticalThreshold *decimal.Decimal
	CurrentValue      *decimal.Decimal
	PreviousValue     *decimal.Decimal
	ChangePercentage  *decimal.Decimal
	DataSource        DataSource
	LastCalculatedAt  *time.Time
	Status            RecordStatus
}

// KPIDetails carries the editable KPI fields
type KPIDetails struct {
	Name        string
	Description string
	Category    string
	Unit        string
	Direction   Direction
	Thresholds  Thresholds
	DataSource  DataSource
}

// NewKPI creates an active KPI with no measurements
func NewKPI(tenantID uuid.UUID, code string, d KPIDetails) (*KPI, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if d.Direction == "" {
		d.Direction = DirectionHigherIsBetter
	}
	v := &shared.ValidationError{}
	if code == "" {
		v.Add("code", "Code is required")
	}
	if err := validateKPI(v, d); err != nil {
		return nil, err
	}
	k := &KPI{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Status:              StatusActive,
	}
	k.apply(d)
	return k, nil
}

// Update changes the definition of an active KPI
func (k *KPI) Update(d KPIDetails) error {
	if k.Status != StatusActive {
		return shared.InvalidTransition("update KPI", k.Status)
	}
	if d.Direction == "" {
		d.Direction = k.Direction
	}
	if err := validateKPI(&shared.ValidationError{}, d); err != nil {
		return err
	}
	k.apply(d)
	k.touch()
	return nil
}

func (k *KPI) apply(d KPIDetails) {
	k.Name = strings.TrimSpace(d.Name)
	k.Description = d.Description
	k.Category = strings.TrimSpace(d.Category)
	k.Unit = strings.TrimSpace(d.Unit)
	k.Direction = d.Direction
	k.TargetValue = d.Thresholds.Target
	k.WarningThreshold = d.Thresholds.Warning
	k.CriticalThreshold = d.Thresholds.Critical
	k.DataSource = d.DataSource
}

// Archive retires the KPI
func (k *KPI) Archive() error {
	if k.Status == StatusArchived {
		return shared.InvalidTransition("archive KPI", k.Status)
	}
	k.Status = StatusArchived
	k.touch()
	return nil
}

// RecordMeasurement replaces the current value and evaluates the thresholds.
// openAlerts are the alerts of this KPI still active or acknowledged; they
// suppress a new alert of the same severity. The returned alert is nil when
// no threshold is breached or an open alert already covers the breach.
func (k *KPI) RecordMeasurement(value decimal.Decimal, at time.Time, by *uuid.UUID, openAlerts []KPIAlert) (*KPIMeasurement, *KPIAlert, error) {
	if k.Status != StatusActive {
		return nil, nil, shared.InvalidTransition("record measurement", k.Status)
	}
	if at.IsZero() {
		at = time.Now()
	}

	k.PreviousValue = k.CurrentValue
	current := value
	k.CurrentValue = &current
	k.ChangePercentage = nil
	if k.PreviousValue != nil {
		if pct, ok := shared.PercentChange(*k.PreviousValue, value); ok {
			k.ChangePercentage = &pct
		}
	}
	k.LastCalculatedAt = &at
	k.touch()

	m := &KPIMeasurement{
		TenantRecord: shared.NewTenantRecord(k.TenantID),
		KPIID:        k.ID,
		Value:        value,
		MeasuredAt:   at,
		RecordedBy:   by,
	}

	severity, threshold, breached := k.Evaluate(value)
	if !breached {
		return m, nil, nil
	}
	for _, a := range openAlerts {
		if a.KPIID == k.ID && a.Severity == severity && a.Status.IsOpen() {
			return m, nil, nil
		}
	}
	alert := newKPIAlert(k, severity, value, threshold, at)
	k.AddDomainEvent(NewKPIAlertRaisedEvent(k, alert))
	return m, alert, nil
}

// Evaluate checks thresholds in order critical then warning; the first breach wins
func (k *KPI) Evaluate(value decimal.Decimal) (AlertSeverity, decimal.Decimal, bool) {
	if k.CriticalThreshold != nil && k.breaches(value, *k.CriticalThreshold) {
		return SeverityCritical, *k.CriticalThreshold, true
	}
	if k.WarningThreshold != nil && k.breaches(value, *k.WarningThreshold) {
		return SeverityWarning, *k.WarningThreshold, true
	}
	return "", decimal.Zero, false
}

func (k *KPI) breaches(value, threshold decimal.Decimal) bool {
	if k.Direction == DirectionLowerIsBetter {
		return value.GreaterThanOrEqual(threshold)
	}
	return value.LessThanOrEqual(threshold)
}

// IsBelowTarget returns true when the current value misses the target
func (k *KPI) IsBelowTarget() bool {
	if k.TargetValue == nil || k.CurrentValue == nil {
		return false
	}
	if k.Direction == DirectionLowerIsBetter {
		return k.CurrentValue.GreaterThan(*k.TargetValue)
	}
	return k.CurrentValue.LessThan(*k.TargetValue)
}

// TargetAchievement returns current/target as a percentage, when both are known
func (k *KPI) TargetAchievement() *decimal.Decimal {
	if k.TargetValue == nil || k.CurrentValue == nil || k.TargetValue.IsZero() {
		return nil
	}
	pct := k.CurrentValue.Div(*k.TargetValue).Mul(decimal.NewFromInt(100)).Round(2)
	return &pct
}

func (k *KPI) touch() {
	k.UpdatedAt = time.Now()
	k.IncrementVersion()
}

func validateKPI(v *shared.ValidationError, d KPIDetails) error {
	if strings.TrimSpace(d.Name) == "" {
		v.Add("name", "Name is required")
	}
	if !d.Direction.IsValid() {
		v.Add("direction", "Invalid direction")
	}
	if !d.DataSource.IsValid() {
		v.Add("data_source", "Unknown data source")
	}
	if v.HasErrors() {
		return v
	}
	if !thresholdsOrdered(d.Direction, d.Thresholds) {
		return shared.NewDomainError("INVALID_THRESHOLDS", invalidThresholdMessage(d.Direction))
	}
	return nil
}

// thresholdsOrdered checks critical <= warning <= target for higher-is-better
// and the reverse for lower-is-better, comparing only the thresholds that are set
func thresholdsOrdered(dir Direction, t Thresholds) bool {
	ordered := []*decimal.Decimal{t.Critical, t.Warning, t.Target}
	var prev *decimal.Decimal
	for _, cur := range ordered {
		if cur == nil {
			continue
		}
		if prev != nil {
			if dir == DirectionLowerIsBetter && prev.LessThan(*cur) {
				return false
			}
			if dir == DirectionHigherIsBetter && prev.GreaterThan(*cur) {
				return false
			}
		}
		prev = cur
	}
	return true
}

func invalidThresholdMessage(dir Direction) string {
	if dir == DirectionLowerIsBetter {
		return "Thresholds must satisfy critical >= warning >= target"
	}
	return "Thresholds must satisfy critical <= warning <= target"
}

// KPIMeasurement is an append-only value observation of a KPI
type KPIMeasurement struct {
	shared.TenantRecord
	KPIID      uuid.UUID
	Value      decimal.Decimal
	MeasuredAt time.Time
	RecordedBy *uuid.UUID
	Notes      string
}

func alertMessage(k *KPI, severity AlertSeverity, value, threshold decimal.Decimal) string {
	return fmt.Sprintf("%s %s: value %s breached threshold %s", k.Name, severity, value.String(), threshold.String())
}
