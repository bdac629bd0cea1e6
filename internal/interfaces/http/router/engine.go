package router

import (
	"time"

	"github.com/erp/platform/internal/infrastructure/config"
	"github.com/erp/platform/internal/infrastructure/logger"
	"github.com/erp/platform/internal/interfaces/http/handler"
	"github.com/erp/platform/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig holds what the global middleware chain needs
type EngineConfig struct {
	Logger    *zap.Logger
	HTTP      config.HTTPConfig
	Swagger   config.SwaggerConfig
	Telemetry config.TelemetryConfig
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
}

// NewEngine creates the gin engine with the global middleware chain:
//  1. RequestID - Generate/propagate request ID
//  2. Recovery - Catch panics
//  3. Logger - Log requests
//  4. Security - Add security headers
//  5. CORS - Handle cross-origin requests
//  6. BodyLimit - Limit request body size
//  7. RateLimit - Apply rate limiting (if enabled)
//  8. Tracing and metrics (if telemetry is enabled)
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, using defaults", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health", "/health/live"))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		tracing := middleware.DefaultTracingConfig()
		if cfg.Telemetry.ServiceName != "" {
			tracing.ServiceName = cfg.Telemetry.ServiceName
		}
		engine.Use(middleware.TracingWithConfig(tracing))
		engine.Use(middleware.SpanErrorMarker())
	}
	if cfg.Meter != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	}

	return engine
}

// AuthRateLimiter returns the stricter per-IP limiter for public auth routes, or nil
func AuthRateLimiter(cfg config.HTTPConfig) gin.HandlerFunc {
	if !cfg.AuthRateLimitEnabled {
		return nil
	}
	window := cfg.AuthRateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRequests, window)
	return middleware.RateLimitByKey(limiter, func(c *gin.Context) string {
		return "auth:" + c.ClientIP()
	})
}

// MountSystem registers the unversioned endpoints: health checks, swagger and the JSON 404
func MountSystem(engine *gin.Engine, system *handler.SystemHandler, swagger config.SwaggerConfig, jwt gin.HandlerFunc) {
	engine.GET("/health", system.Health)
	engine.GET("/health/live", system.Live)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(swagger, jwt), ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.NoRoute(system.NoRoute)
}
