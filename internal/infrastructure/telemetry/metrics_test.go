package telemetry

import (
	"context"
	"testing"

	"github.com/erp/platform/internal/domain/analytics"
	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestDomainMetrics_Handle(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewDomainMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	payment := &finance.PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypePaymentRecorded, "Payment", uuid.New(), tenantID),
		Amount:          decimal.RequireFromString("250.50"),
		Method:          finance.PaymentMethodCash,
	}
	alert := &analytics.KPIAlertRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(analytics.EventTypeKPIAlertRaised, analytics.AggregateTypeKPI, uuid.New(), tenantID),
		KPICode:         "REV",
		Severity:        analytics.SeverityWarning,
	}

	require.NoError(t, m.Handle(ctx, payment))
	require.NoError(t, m.Handle(ctx, payment))
	require.NoError(t, m.Handle(ctx, alert))

	data := collect(t, reader)

	events, ok := data["erp.domain_events"].(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range events.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)

	amounts, ok := data["erp.payment.amount"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, amounts.DataPoints, 1)
	assert.Equal(t, uint64(2), amounts.DataPoints[0].Count)
	assert.InDelta(t, 501.0, amounts.DataPoints[0].Sum, 0.001)

	alerts, ok := data["erp.kpi_alerts"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, alerts.DataPoints, 1)
	severity, _ := alerts.DataPoints[0].Attributes.Value("severity")
	assert.Equal(t, "warning", severity.AsString())

	assert.Nil(t, m.EventTypes())
}
