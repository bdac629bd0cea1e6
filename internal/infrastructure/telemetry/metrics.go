package telemetry

import (
	"context"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/hr"
	"github.com/erp/platform/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names instruments created by this module
const MeterName = "github.com/erp/platform"

// Meter returns the module meter from the global provider
func Meter() metric.Meter {
	return otel.Meter(MeterName)
}

// DomainMetrics counts domain events and records business amounts. It
// subscribes to the event bus for every event type.
type DomainMetrics struct {
	events   metric.Int64Counter
	payments metric.Float64Histogram
	payroll  metric.Float64Histogram
	alerts   metric.Int64Counter
}

// NewDomainMetrics creates the instruments on meter
func NewDomainMetrics(meter metric.Meter) (*DomainMetrics, error) {
	events, err := meter.Int64Counter("erp.domain_events",
		metric.WithDescription("Domain events published"),
		metric.WithUnit("{event}"))
	if err != nil {
		return nil, err
	}
	payments, err := meter.Float64Histogram("erp.payment.amount",
		metric.WithDescription("Amounts of recorded invoice payments"),
		metric.WithUnit("{currency}"))
	if err != nil {
		return nil, err
	}
	payroll, err := meter.Float64Histogram("erp.payroll.net_pay",
		metric.WithDescription("Net pay of paid payrolls"),
		metric.WithUnit("{currency}"))
	if err != nil {
		return nil, err
	}
	alerts, err := meter.Int64Counter("erp.kpi_alerts",
		metric.WithDescription("KPI alerts raised"),
		metric.WithUnit("{alert}"))
	if err != nil {
		return nil, err
	}
	return &DomainMetrics{events: events, payments: payments, payroll: payroll, alerts: alerts}, nil
}

// Handle records the event
func (m *DomainMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", event.EventType()),
		attribute.String("aggregate_type", event.AggregateType()),
	))

	switch e := event.(type) {
	case *finance.PaymentRecordedEvent:
		m.payments.Record(ctx, e.Amount.InexactFloat64(),
			metric.WithAttributes(attribute.String("method", string(e.Method))))
	case *hr.PayrollPaidEvent:
		m.payroll.Record(ctx, e.NetPay.InexactFloat64())
	case *analytics.KPIAlertRaisedEvent:
		m.alerts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("severity", string(e.Severity)),
			attribute.String("kpi_code", e.KPICode),
		))
	}
	return nil
}

// EventTypes returns nil to receive every event
func (m *DomainMetrics) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*DomainMetrics)(nil)
