package analytics

import (
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func createTestKPI(t *testing.T, dir Direction, target, warning, critical *decimal.Decimal) *KPI {
	t.Helper()
	k, err := NewKPI(uuid.New(), "rev", KPIDetails{
		Name:       "Revenue",
		Direction:  dir,
		Thresholds: Thresholds{Target: target, Warning: warning, Critical: critical},
	})
	require.NoError(t, err)
	return k
}

// record applies a measurement and keeps the caller's open-alert list in sync
func record(t *testing.T, k *KPI, open *[]KPIAlert, v int64) *KPIAlert {
	t.Helper()
	_, alert, err := k.RecordMeasurement(decimal.NewFromInt(v), time.Now(), nil, *open)
	require.NoError(t, err)
	if alert != nil {
		*open = append(*open, *alert)
	}
	return alert
}

func TestNewKPI(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		k := createTestKPI(t, "", decPtr(100), decPtr(80), decPtr(50))
		assert.Equal(t, "REV", k.Code)
		assert.Equal(t, DirectionHigherIsBetter, k.Direction)
		assert.Nil(t, k.CurrentValue)
	})

	t.Run("unordered thresholds", func(t *testing.T) {
		_, err := NewKPI(uuid.New(), "x", KPIDetails{Name: "X", Thresholds: Thresholds{Warning: decPtr(40), Critical: decPtr(50)}})
		assert.True(t, shared.HasCode(err, "INVALID_THRESHOLDS"))

		_, err = NewKPI(uuid.New(), "x", KPIDetails{Name: "X", Direction: DirectionLowerIsBetter,
			Thresholds: Thresholds{Target: decPtr(5), Warning: decPtr(10), Critical: decPtr(20)}})
		assert.NoError(t, err)
	})

	t.Run("unknown data source", func(t *testing.T) {
		_, err := NewKPI(uuid.New(), "x", KPIDetails{Name: "X", DataSource: "weather"})
		assert.True(t, shared.IsValidation(err))
	})
}

func TestKPI_RecordMeasurement(t *testing.T) {
	t.Run("tracks previous value and change", func(t *testing.T) {
		k := createTestKPI(t, "", nil, nil, nil)
		var open []KPIAlert

		record(t, k, &open, 200)
		assert.Nil(t, k.PreviousValue)
		assert.Nil(t, k.ChangePercentage)

		record(t, k, &open, 250)
		assert.True(t, decimal.NewFromInt(200).Equal(*k.PreviousValue))
		assert.True(t, decimal.NewFromInt(25).Equal(*k.ChangePercentage))
		assert.NotNil(t, k.LastCalculatedAt)
	})

	t.Run("zero previous leaves change empty", func(t *testing.T) {
		k := createTestKPI(t, "", nil, nil, nil)
		var open []KPIAlert
		record(t, k, &open, 0)
		record(t, k, &open, 10)
		assert.Nil(t, k.ChangePercentage)
	})

	t.Run("critical wins over warning", func(t *testing.T) {
		k := createTestKPI(t, "", decPtr(100), decPtr(80), decPtr(50))
		var open []KPIAlert

		alert := record(t, k, &open, 40)
		require.NotNil(t, alert)
		assert.Equal(t, SeverityCritical, alert.Severity)
		assert.True(t, decimal.NewFromInt(50).Equal(alert.Threshold))
		assert.Len(t, open, 1, "critical breach must not also raise a warning")
	})

	t.Run("no duplicate open alert", func(t *testing.T) {
		k := createTestKPI(t, "", decPtr(100), decPtr(80), decPtr(50))
		var open []KPIAlert

		require.NotNil(t, record(t, k, &open, 40))
		assert.Nil(t, record(t, k, &open, 30))
		require.NoError(t, open[0].Acknowledge(uuid.New()))
		assert.Nil(t, record(t, k, &open, 20), "acknowledged alert is still open")

		require.NoError(t, open[0].Resolve(uuid.New()))
		assert.NotNil(t, record(t, k, &open, 10), "resolved alert no longer suppresses")
	})

	t.Run("warning band", func(t *testing.T) {
		k := createTestKPI(t, "", decPtr(100), decPtr(80), decPtr(50))
		var open []KPIAlert
		alert := record(t, k, &open, 80)
		require.NotNil(t, alert)
		assert.Equal(t, SeverityWarning, alert.Severity)
		assert.Nil(t, record(t, k, &open, 90))
		assert.Len(t, k.GetDomainEvents(), 1)
	})

	t.Run("lower is better", func(t *testing.T) {
		k := createTestKPI(t, DirectionLowerIsBetter, decPtr(5), decPtr(10), decPtr(20))
		var open []KPIAlert
		assert.Nil(t, record(t, k, &open, 9))
		alert := record(t, k, &open, 20)
		require.NotNil(t, alert)
		assert.Equal(t, SeverityCritical, alert.Severity)
		assert.True(t, k.IsBelowTarget())
	})

	t.Run("archived KPI rejects measurements", func(t *testing.T) {
		k := createTestKPI(t, "", nil, nil, nil)
		require.NoError(t, k.Archive())
		_, _, err := k.RecordMeasurement(decimal.NewFromInt(1), time.Now(), nil, nil)
		assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	})
}

func TestKPI_MeasurementProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("current value and change percentage follow every measurement", prop.ForAll(
		func(values []int64) bool {
			k := createTestKPI(t, "", nil, nil, nil)
			var prev *int64
			for i := range values {
				v := values[i]
				if _, _, err := k.RecordMeasurement(decimal.NewFromInt(v), time.Now(), nil, nil); err != nil {
					return false
				}
				if !k.CurrentValue.Equal(decimal.NewFromInt(v)) {
					return false
				}
				if prev != nil && *prev != 0 {
					p := decimal.NewFromInt(*prev)
					want := decimal.NewFromInt(v).Sub(p).Div(p).Mul(decimal.NewFromInt(100)).Round(2)
					if k.ChangePercentage == nil || !k.ChangePercentage.Equal(want) {
						return false
					}
				}
				prev = &v
			}
			return true
		},
		gen.SliceOfN(6, gen.Int64Range(-1000, 1000)),
	))

	properties.Property("repeated critical breaches keep exactly one open critical alert", prop.ForAll(
		func(values []int64) bool {
			k := createTestKPI(t, "", decPtr(100), decPtr(80), decPtr(50))
			var open []KPIAlert
			for _, v := range values {
				_, alert, err := k.RecordMeasurement(decimal.NewFromInt(v), time.Now(), nil, open)
				if err != nil {
					return false
				}
				if alert != nil {
					open = append(open, *alert)
				}
			}
			critical := 0
			for _, a := range open {
				if a.Severity == SeverityCritical && a.Status.IsOpen() {
					critical++
				}
			}
			return critical == 1
		},
		gen.SliceOfN(5, gen.Int64Range(-100, 50)),
	))

	properties.TestingRun(t)
}

func TestKPIAlert_Transitions(t *testing.T) {
	k := createTestKPI(t, "", nil, nil, decPtr(0))
	_, alert, err := k.RecordMeasurement(decimal.NewFromInt(-1), time.Now(), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, alert)
	user := uuid.New()

	require.NoError(t, alert.Dismiss(user))
	assert.Equal(t, AlertStatusDismissed, alert.Status)
	assert.Equal(t, user, *alert.DismissedBy)
	assert.True(t, shared.HasCode(alert.Acknowledge(user), "INVALID_STATE"))
	assert.Error(t, alert.Resolve(user))
	assert.Error(t, alert.Dismiss(user))
}
