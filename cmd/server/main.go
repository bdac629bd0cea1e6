package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	accountsapp "github.com/erp/platform/internal/application/accounts"
	analyticsapp "github.com/erp/platform/internal/application/analytics"
	financeapp "github.com/erp/platform/internal/application/finance"
	hrapp "github.com/erp/platform/internal/application/hr"
	"github.com/erp/platform/internal/application/notification"
	purchasingapp "github.com/erp/platform/internal/application/purchasing"
	salesapp "github.com/erp/platform/internal/application/sales"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/erp/platform/internal/infrastructure/auth"
	"github.com/erp/platform/internal/infrastructure/cache"
	"github.com/erp/platform/internal/infrastructure/config"
	"github.com/erp/platform/internal/infrastructure/event"
	"github.com/erp/platform/internal/infrastructure/logger"
	"github.com/erp/platform/internal/infrastructure/mail"
	"github.com/erp/platform/internal/infrastructure/migration"
	"github.com/erp/platform/internal/infrastructure/persistence"
	"github.com/erp/platform/internal/infrastructure/printing"
	"github.com/erp/platform/internal/infrastructure/realtime"
	"github.com/erp/platform/internal/infrastructure/storage"
	"github.com/erp/platform/internal/infrastructure/telemetry"
	"github.com/erp/platform/internal/interfaces/http/handler"
	"github.com/erp/platform/internal/interfaces/http/middleware"
	"github.com/erp/platform/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	_ "github.com/erp/platform/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			ERP Platform API
//	@version		1.0
//	@description	Multi-tenant ERP: accounts, finance, HR, purchasing, CRM and analytics.

//	@contact.name	API Support
//	@contact.email	support@erp.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Fields:     map[string]string{"app": cfg.App.Name, "env": cfg.App.Env},
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	// models decode JSONB columns outside any request and log through zap.L()
	zap.ReplaceGlobals(log)
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	if providers.Logs != nil {
		log = telemetry.BridgeLogger(log, providers.Logs, cfg.Telemetry.ServiceName)
	}

	log.Info("Starting ERP platform",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.Database.AutoMigrate {
		if err := migration.ApplyEmbedded(cfg.Database.DSN(), log); err != nil {
			return err
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.Open(ctx, &cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, log); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	departmentRepo := persistence.NewGormDepartmentRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRepository(db.DB)
	leaveRepo := persistence.NewGormLeaveRequestRepository(db.DB)
	policyRepo := persistence.NewGormPolicyRepository(db.DB)
	ackRepo := persistence.NewGormPolicyAcknowledgmentRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	performanceRepo := persistence.NewGormSupplierPerformanceRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	requestRepo := persistence.NewGormProcurementRequestRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	interactionRepo := persistence.NewGormInteractionRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	kpiRepo := persistence.NewGormKPIRepository(db.DB)
	measurementRepo := persistence.NewGormKPIMeasurementRepository(db.DB)
	alertRepo := persistence.NewGormKPIAlertRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)
	eventRepo := persistence.NewGormAnalyticsEventRepository(db.DB)
	dataSource := persistence.NewGormAnalyticsDataSource(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Result cache; the Redis client it opens is shared with the token blacklist
	resultCache, redisClient := cache.NewResultCacheFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).Create()
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}
	blacklist := newTokenBlacklist(redisClient, log)

	// Event bus and its subscribers
	eventBus := event.NewInMemoryEventBus(log, event.FromConfig(cfg.Event)...)
	hub := realtime.NewAlertHub(log)
	eventBus.Subscribe(hub)
	eventBus.Subscribe(analyticsapp.NewEventRecorder(eventRepo, log))
	eventBus.Subscribe(analyticsapp.NewCacheInvalidationHandler(resultCache, log))
	var meter metric.Meter
	if providers.Meter != nil {
		meter = telemetry.Meter()
		domainMetrics, err := telemetry.NewDomainMetrics(meter)
		if err != nil {
			return err
		}
		eventBus.Subscribe(domainMetrics)
	}
	if cfg.Kafka.Enabled {
		writer, err := event.NewKafkaWriter(cfg.Kafka)
		if err != nil {
			return err
		}
		forwarder := event.NewKafkaForwarder(writer, log)
		defer func() {
			_ = forwarder.Close()
		}()
		eventBus.Subscribe(forwarder)
		log.Info("Forwarding domain events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	if err := eventBus.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = eventBus.Stop(stopCtx)
	}()

	// Outbound email
	var smtp *mail.SMTPMailer
	if cfg.Mail.Driver == "smtp" {
		smtp = mail.NewSMTPMailer(cfg.Mail)
	}
	notifier := notification.NewService(mail.New(cfg.Mail.Driver, smtp, log), cfg.App.PublicURL, log)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := accountsapp.NewAuthService(
		txScope.Accounts(), orgRepo, userRepo,
		jwtService, blacklist, notifier,
		accountsapp.AuthServiceConfig{
			MaxLoginAttempts:     cfg.Tokens.MaxLoginAttempts,
			LockDuration:         cfg.Tokens.LockDuration,
			PasswordResetTTL:     cfg.Tokens.PasswordResetTTL,
			EmailVerificationTTL: cfg.Tokens.EmailVerificationTTL,
		},
		log,
	)
	userService := accountsapp.NewUserService(userRepo, jwtService, blacklist, log)
	orgService := accountsapp.NewOrganizationService(orgRepo, userRepo)

	invoiceService := financeapp.NewInvoiceService(txScope.Finance(), invoiceRepo, clientRepo, orgRepo, notifier, log)
	paymentService := financeapp.NewPaymentService(txScope.Finance(), paymentRepo, log)
	budgetService := financeapp.NewBudgetService(budgetRepo, log)

	departmentService := hrapp.NewDepartmentService(departmentRepo, employeeRepo, log)
	employeeService := hrapp.NewEmployeeService(employeeRepo, departmentRepo, log)
	payrollService := hrapp.NewPayrollService(payrollRepo, employeeRepo, log)
	leaveService := hrapp.NewLeaveService(txScope.HR(), leaveRepo, employeeRepo, log)
	policyService := hrapp.NewPolicyService(policyRepo, ackRepo, employeeRepo, log)

	supplierService := purchasingapp.NewSupplierService(txScope.Purchasing(), supplierRepo, performanceRepo, log)
	orderService := purchasingapp.NewPurchaseOrderService(txScope.Purchasing(), orderRepo, supplierRepo, log)
	procurementService := purchasingapp.NewProcurementService(txScope.Purchasing(), requestRepo, log)

	clientService := salesapp.NewClientService(txScope.Sales(), clientRepo, contactRepo, log)
	interactionService := salesapp.NewInteractionService(interactionRepo, clientRepo, contactRepo, notifier, log)

	reportService := analyticsapp.NewReportService(reportRepo, dataSource, resultCache, cfg.Cache.ReportTTL, log)
	kpiService := analyticsapp.NewKPIService(txScope.Analytics(), kpiRepo, measurementRepo, dataSource, resultCache, log)
	alertService := analyticsapp.NewAlertService(alertRepo, log)
	dashboardService := analyticsapp.NewDashboardService(txScope.Analytics(), dashboardRepo, kpiRepo, reportRepo, reportService, log)
	eventService := analyticsapp.NewEventService(eventRepo, log)

	for _, s := range []interface {
		SetEventPublisher(shared.EventPublisher)
	}{
		authService, userService, invoiceService, paymentService, budgetService,
		employeeService, payrollService, leaveService, orderService, procurementService, kpiService,
	} {
		s.SetEventPublisher(eventBus)
	}

	// Documents: PDF rendering and object storage are both optional
	var objectStorage *storage.S3ObjectStorage
	if cfg.Storage.Enabled {
		objectStorage, err = storage.NewS3ObjectStorage(ctx, cfg.Storage, log)
		if err != nil {
			return err
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			log.Warn("Object storage bucket check failed", zap.Error(err))
		}
		reportService.SetExportStorage(objectStorage, cfg.Storage.PresignExpiry)
	}
	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(cfg.Printing, log)
		defer func() {
			_ = renderer.Close()
		}()
		if objectStorage != nil {
			invoiceService.SetDocumentRendering(renderer, objectStorage, cfg.Storage.PresignExpiry)
		} else {
			invoiceService.SetDocumentRendering(renderer, nil, 0)
		}
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := router.NewEngine(router.EngineConfig{
		Logger:    log,
		HTTP:      cfg.HTTP,
		Swagger:   cfg.Swagger,
		Telemetry: cfg.Telemetry,
		Meter:     meter,
	})

	jwtConfig := middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist, Logger: log}
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)
	streamConfig := jwtConfig
	streamConfig.AllowQueryToken = true

	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Validator = orgService
	tenantConfig.Logger = log

	security := router.Security{
		JWT:           jwtAuth,
		StreamJWT:     middleware.JWTAuthMiddlewareWithConfig(streamConfig),
		Tenant:        middleware.TenantMiddlewareWithConfig(tenantConfig),
		AuthRateLimit: router.AuthRateLimiter(cfg.HTTP),
	}
	if providers.Profiler != nil {
		security.Profiling = middleware.Profiling()
	}

	checks := []handler.HealthCheck{{Name: "database", Check: db.Ping}}
	if redisClient != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, checks...)
	router.MountSystem(engine, systemHandler, cfg.Swagger, jwtAuth)

	r := router.NewRouter(engine, "v1")
	router.RegisterAPI(r, router.Handlers{
		System:        systemHandler,
		Auth:          handler.NewAuthHandler(authService, userService),
		User:          handler.NewUserHandler(userService),
		Organization:  handler.NewOrganizationHandler(orgService),
		Invoice:       handler.NewInvoiceHandler(invoiceService, paymentService),
		Payment:       handler.NewPaymentHandler(paymentService),
		Budget:        handler.NewBudgetHandler(budgetService),
		Department:    handler.NewDepartmentHandler(departmentService),
		Employee:      handler.NewEmployeeHandler(employeeService, leaveService),
		Payroll:       handler.NewPayrollHandler(payrollService),
		Leave:         handler.NewLeaveHandler(leaveService),
		Policy:        handler.NewPolicyHandler(policyService),
		Supplier:      handler.NewSupplierHandler(supplierService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		Procurement:   handler.NewProcurementHandler(procurementService),
		Client:        handler.NewClientHandler(clientService),
		Interaction:   handler.NewInteractionHandler(interactionService),
		Report:        handler.NewReportHandler(reportService),
		KPI:           handler.NewKPIHandler(kpiService),
		Alert:         handler.NewAlertHandler(alertService, hub, realtime.NewUpgrader(cfg.HTTP.CORSAllowOrigins)),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		Event:         handler.NewEventHandler(eventService),
	}, security)
	r.Setup()
	log.Info("API routes mounted", zap.String("base_path", r.BasePath()), zap.Int("routes", len(r.Routes())))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}

// newTokenBlacklist shares the result cache's Redis client when there is one
func newTokenBlacklist(client *redis.Client, log *zap.Logger) auth.TokenBlacklist {
	if client == nil {
		log.Info("using in-memory token blacklist")
		return auth.NewInMemoryTokenBlacklist()
	}
	return auth.NewRedisTokenBlacklist(client)
}
