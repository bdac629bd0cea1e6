package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/erp/platform/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// InstrumentDB installs the otelgorm plugin and tags spans of statements
// slower than the configured threshold. Query variables are only recorded
// when DBLogFullSQL is set.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = defaultSlowQueryThreshold
	}
	if err := registerSlowQueryCallbacks(db, threshold); err != nil {
		return err
	}

	logger.Info("database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		markSlowQuery(tx, threshold)
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:start_create", before),
		cb.Query().Before("gorm:query").Register("telemetry:start_query", before),
		cb.Update().Before("gorm:update").Register("telemetry:start_update", before),
		cb.Delete().Before("gorm:delete").Register("telemetry:start_delete", before),
		cb.Row().Before("gorm:row").Register("telemetry:start_row", before),
		cb.Raw().Before("gorm:raw").Register("telemetry:start_raw", before),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("telemetry:slow_create", after),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("telemetry:slow_query", after),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("telemetry:slow_update", after),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("telemetry:slow_delete", after),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("telemetry:slow_row", after),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("telemetry:slow_raw", after),
	)
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	started, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(started)
	if elapsed <= threshold {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
	)
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
}
