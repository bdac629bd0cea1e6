package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpanEndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, ok := StartSpan(context.Background(), "report.run", attribute.String("report_type", "sales_summary"))
	EndSpan(ok, nil)
	_, failed := StartSpan(context.Background(), "kpi.calculate")
	EndSpan(failed, errors.New("no rows"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "report.run", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("report_type", "sales_summary"))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "no rows", spans[1].Status().Description)
}
