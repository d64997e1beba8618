package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/xear/backend/internal/application/billing"
	catalogapp "github.com/xear/backend/internal/application/catalog"
	identityapp "github.com/xear/backend/internal/application/identity"
	insuranceapp "github.com/xear/backend/internal/application/insurance"
	inventoryapp "github.com/xear/backend/internal/application/inventory"
	patientapp "github.com/xear/backend/internal/application/patient"
	pricingapp "github.com/xear/backend/internal/application/pricing"
	schedulingapp "github.com/xear/backend/internal/application/scheduling"
	"github.com/xear/backend/internal/domain/identity"
	"github.com/xear/backend/internal/domain/insurance"
	"github.com/xear/backend/internal/domain/pricing"
	"github.com/xear/backend/internal/infrastructure/auth"
	"github.com/xear/backend/internal/infrastructure/cache"
	"github.com/xear/backend/internal/infrastructure/config"
	"github.com/xear/backend/internal/infrastructure/event"
	"github.com/xear/backend/internal/infrastructure/logger"
	"github.com/xear/backend/internal/infrastructure/persistence"
	"github.com/xear/backend/internal/infrastructure/printing"
	"github.com/xear/backend/internal/infrastructure/scheduler"
	"github.com/xear/backend/internal/infrastructure/storage"
	"github.com/xear/backend/internal/interfaces/http/handler"
	"github.com/xear/backend/internal/interfaces/http/middleware"
	"github.com/xear/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting X-Ear backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	deviceRepo := persistence.NewGormDeviceRepository(db.DB)
	stockRepo := persistence.NewGormStockUnitRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	planRepo := persistence.NewGormPaymentPlanRepository(db.DB)
	ereceiptRepo := persistence.NewGormEReceiptRepository(db.DB)
	schemeRepo := persistence.NewGormSchemeRepository(db.DB)

	// Token blacklist: Redis when reachable, in-memory otherwise.
	// A single instance works fine on the in-memory fallback; revoked
	// tokens are only lost on restart, where they expire anyway.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Scheme cache follows the same pattern
	var schemeCache insuranceapp.SchemeCache
	redisCache, err := cache.NewRedisSchemeCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory scheme cache", zap.Error(err))
		schemeCache = cache.NewInMemorySchemeCache()
	} else {
		schemeCache = redisCache
	}

	// Initialize application services
	authService := identityapp.NewAuthService(tenantRepo, userRepo, jwtService, blacklist,
		identityapp.DefaultAuthServiceConfig(), log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo)
	userService := identityapp.NewUserService(userRepo)
	patientService := patientapp.NewPatientService(patientRepo)
	importService := patientapp.NewPatientImportService(patientRepo, patientService)
	appointmentService := schedulingapp.NewAppointmentService(appointmentRepo, patientRepo)
	deviceService := catalogapp.NewDeviceService(deviceRepo)
	stockService := inventoryapp.NewStockService(stockRepo)

	schemeService := insuranceapp.NewSchemeService(schemeRepo)
	schemeService.SetCache(schemeCache)

	ereceiptService := insuranceapp.NewEReceiptService(ereceiptRepo, patientRepo, insurance.NewMatcher())

	// Document storage for e-receipt attachments: S3 (or MinIO) when a
	// bucket is configured, a no-op stub otherwise
	if cfg.Storage.Bucket != "" {
		docStorage, err := storage.NewS3DocumentStorage(&cfg.Storage)
		if err != nil {
			log.Warn("Object storage unavailable, presigned URLs disabled", zap.Error(err))
			ereceiptService.SetStorageService(storage.NewStubDocumentStorage())
		} else {
			ereceiptService.SetStorageService(docStorage)
			log.Info("Object storage configured",
				zap.String("bucket", cfg.Storage.Bucket),
				zap.String("region", cfg.Storage.Region),
			)
		}
	} else {
		ereceiptService.SetStorageService(storage.NewStubDocumentStorage())
	}

	// SGK deductions are computed against the tenant's scheme table.
	// FailClosed coalesces evaluator failures to not-eligible: a broken
	// scheme lookup prices the quote with zero deduction instead of
	// failing the request or over-claiming from SGK.
	evaluator := pricing.FailClosed(insuranceapp.NewContextEvaluator(schemeService))
	quoteService := pricingapp.NewQuoteService(quoteRepo, evaluator)

	invoiceService := billingapp.NewInvoiceService(invoiceRepo, planRepo, quoteRepo, patientRepo)

	// Invoice PDF rendering via headless Chrome
	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			ChromePath:  cfg.Printing.ChromePath,
			Timeout:     cfg.Printing.Timeout,
			PaperWidth:  cfg.Printing.PaperWidth,
			PaperHeight: cfg.Printing.PaperHeight,
			NoSandbox:   true,
			Logger:      log,
		})
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		invoiceService.SetPrinter(printing.NewInvoicePDFPrinter(renderer, tenantRepo, log))
		log.Info("Invoice PDF printing enabled", zap.String("chrome_path", cfg.Printing.ChromePath))
	}

	// Initialize event bus and cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Quote finalized -> reserved stock units are delivered
	quoteFinalizedHandler := inventoryapp.NewQuoteFinalizedHandler(log, stockService)
	eventBus.Subscribe(quoteFinalizedHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	tenantService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)
	patientService.SetEventPublisher(eventBus)
	appointmentService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)
	quoteService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	ereceiptService.SetEventPublisher(eventBus)

	// Background workers
	tenantProvider := scheduler.NewRepositoryTenantProvider(tenantRepo)

	reservationWorker := scheduler.NewReservationReleaseWorker(cfg.Reservation, tenantProvider, stockRepo, log)
	if err := reservationWorker.Start(context.Background()); err != nil {
		log.Fatal("Failed to start reservation release worker", zap.Error(err))
	}
	defer func() {
		if err := reservationWorker.Stop(context.Background()); err != nil {
			log.Error("Error stopping reservation release worker", zap.Error(err))
		}
	}()

	if cfg.Scheduler.Enabled {
		reminderWorker := scheduler.NewDailyReminderWorker(
			reminderScheduleFromCron(cfg.Scheduler.DailyCronSchedule),
			tenantRepo,
			appointmentRepo,
			patientRepo,
			invoiceRepo,
			&scheduler.LogMessageSender{Logger: log},
			log,
		)
		if err := reminderWorker.Start(context.Background()); err != nil {
			log.Fatal("Failed to start daily reminder worker", zap.Error(err))
		}
		defer func() {
			if err := reminderWorker.Stop(context.Background()); err != nil {
				log.Error("Error stopping daily reminder worker", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	userHandler := handler.NewUserHandler(userService)
	patientHandler := handler.NewPatientHandler(patientService, importService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	deviceHandler := handler.NewDeviceHandler(deviceService)
	stockHandler := handler.NewStockHandler(stockService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	ereceiptHandler := handler.NewEReceiptHandler(ereceiptService)
	schemeHandler := handler.NewSchemeHandler(schemeService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for all API routes except login, token refresh
	// and clinic onboarding
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/tenants/register",
		},
		Logger: log,
	}))

	// Tenant resolution: JWT claim first, X-Tenant-ID header as fallback
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log
	tenantConfig.SkipPaths = append(tenantConfig.SkipPaths, "/api/v1/auth/refresh")
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Authentication
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Clinic (tenant) management. Registration is public; the rest
	// operates on the caller's own clinic.
	tenantRoutes := router.NewDomainGroup("tenants", "/tenants")
	tenantRoutes.POST("/register", tenantHandler.Register)
	tenantRoutes.GET("/me", tenantHandler.Get)
	tenantRoutes.PUT("/me/tax-info", tenantHandler.SetTaxInfo)
	tenantRoutes.PUT("/me/sgk-facility", tenantHandler.SetSGKFacility)
	tenantRoutes.PUT("/me/contact", tenantHandler.SetContact)
	tenantRoutes.PUT("/me/settings", tenantHandler.UpdateSettings)

	// Staff management is admin-only except for the clinician listing
	// used by the appointment form
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.GET("/clinicians", userHandler.ListClinicians)
	adminUserRoutes := userRoutes.Group("admin", "")
	adminUserRoutes.Use(middleware.RequireRole(string(identity.RoleAdmin)))
	adminUserRoutes.POST("", userHandler.Create)
	adminUserRoutes.GET("", userHandler.List)
	adminUserRoutes.GET("/:id", userHandler.GetByID)
	adminUserRoutes.PUT("/:id", userHandler.Update)
	adminUserRoutes.PUT("/:id/role", userHandler.ChangeRole)
	adminUserRoutes.POST("/:id/reset-password", userHandler.ResetPassword)
	adminUserRoutes.POST("/:id/activate", userHandler.Activate)
	adminUserRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	adminUserRoutes.POST("/:id/unlock", userHandler.Unlock)

	// Patients
	patientRoutes := router.NewDomainGroup("patients", "/patients")
	patientRoutes.POST("", patientHandler.Register)
	patientRoutes.GET("", patientHandler.List)
	patientRoutes.GET("/search", patientHandler.Search)
	patientRoutes.GET("/tckn/:tckn", patientHandler.GetByTCKN)
	patientRoutes.POST("/import", patientHandler.Import)
	patientRoutes.GET("/:id", patientHandler.GetByID)
	patientRoutes.PUT("/:id/contact", patientHandler.UpdateContact)
	patientRoutes.PUT("/:id/sgk-status", patientHandler.SetSGKStatus)
	patientRoutes.POST("/:id/hearing-loss", patientHandler.RecordHearingLoss)
	patientRoutes.PUT("/:id/notes", patientHandler.SetNotes)
	patientRoutes.POST("/:id/archive", patientHandler.Archive)
	patientRoutes.POST("/:id/restore", patientHandler.Restore)
	// Per-patient views from other contexts
	patientRoutes.GET("/:id/appointments", appointmentHandler.ListByPatient)
	patientRoutes.GET("/:id/quotes", quoteHandler.ListByPatient)
	patientRoutes.GET("/:id/invoices", invoiceHandler.ListByPatient)

	// Appointments
	appointmentRoutes := router.NewDomainGroup("appointments", "/appointments")
	appointmentRoutes.POST("", appointmentHandler.Schedule)
	appointmentRoutes.GET("", appointmentHandler.List)
	appointmentRoutes.GET("/:id", appointmentHandler.GetByID)
	appointmentRoutes.PUT("/:id", appointmentHandler.Reschedule)
	appointmentRoutes.POST("/:id/confirm", appointmentHandler.Confirm)
	appointmentRoutes.POST("/:id/complete", appointmentHandler.Complete)
	appointmentRoutes.POST("/:id/cancel", appointmentHandler.Cancel)
	appointmentRoutes.POST("/:id/no-show", appointmentHandler.MarkNoShow)

	// Device catalog
	deviceRoutes := router.NewDomainGroup("devices", "/devices")
	deviceRoutes.POST("", deviceHandler.Create)
	deviceRoutes.GET("", deviceHandler.List)
	deviceRoutes.GET("/sellable", deviceHandler.ListSellable)
	deviceRoutes.GET("/:id", deviceHandler.GetByID)
	deviceRoutes.PUT("/:id/price", deviceHandler.ChangeListPrice)
	deviceRoutes.PUT("/:id/specs", deviceHandler.UpdateSpecs)
	deviceRoutes.POST("/:id/discontinue", deviceHandler.Discontinue)
	// Serialized stock per device model
	deviceRoutes.GET("/:id/units", stockHandler.ListByDevice)
	deviceRoutes.GET("/:id/stock-level", stockHandler.StockLevel)

	// Serialized stock units
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/units", stockHandler.Receive)
	stockRoutes.GET("/units/serial/:serial", stockHandler.GetBySerial)
	stockRoutes.GET("/units/:id", stockHandler.GetByID)
	stockRoutes.POST("/units/:id/reserve", stockHandler.Reserve)
	stockRoutes.POST("/units/:id/release", stockHandler.ReleaseReservation)
	stockRoutes.POST("/units/:id/deliver", stockHandler.Deliver)
	stockRoutes.POST("/units/:id/return", stockHandler.Return)
	stockRoutes.POST("/units/:id/restock", stockHandler.Restock)
	stockRoutes.POST("/units/:id/repair", stockHandler.SendToRepair)
	stockRoutes.POST("/units/:id/repair/complete", stockHandler.CompleteRepair)
	stockRoutes.POST("/units/:id/scrap", stockHandler.Scrap)

	// Sale quotes
	quoteRoutes := router.NewDomainGroup("quotes", "/quotes")
	quoteRoutes.POST("", quoteHandler.Create)
	quoteRoutes.GET("", quoteHandler.List)
	quoteRoutes.POST("/preview", quoteHandler.Preview)
	quoteRoutes.GET("/:id", quoteHandler.GetByID)
	quoteRoutes.POST("/:id/items", quoteHandler.AddItem)
	quoteRoutes.PUT("/:id/items/:itemId", quoteHandler.UpdateItem)
	quoteRoutes.DELETE("/:id/items/:itemId", quoteHandler.RemoveItem)
	quoteRoutes.PUT("/:id/options", quoteHandler.UpdateOptions)
	quoteRoutes.POST("/:id/compute", quoteHandler.Compute)
	quoteRoutes.POST("/:id/finalize", quoteHandler.Finalize)
	quoteRoutes.POST("/:id/cancel", quoteHandler.Cancel)

	// Invoicing
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Issue)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/overdue", invoiceHandler.ListOverdue)
	invoiceRoutes.GET("/:id", invoiceHandler.GetByID)
	invoiceRoutes.POST("/:id/payments", invoiceHandler.RecordPayment)
	invoiceRoutes.POST("/:id/void", invoiceHandler.Void)
	invoiceRoutes.GET("/:id/pdf", invoiceHandler.RenderPDF)
	invoiceRoutes.POST("/:id/efatura/sent", invoiceHandler.MarkEFaturaSent)
	invoiceRoutes.POST("/:id/efatura/accepted", invoiceHandler.MarkEFaturaAccepted)
	invoiceRoutes.POST("/:id/efatura/rejected", invoiceHandler.MarkEFaturaRejected)
	invoiceRoutes.POST("/:id/payment-plan", invoiceHandler.CreatePaymentPlan)
	invoiceRoutes.GET("/:id/payment-plan", invoiceHandler.GetPaymentPlan)
	invoiceRoutes.POST("/:id/payment-plan/pay", invoiceHandler.PayInstallment)

	// SGK insurance: e-receipts and coverage schemes
	insuranceRoutes := router.NewDomainGroup("insurance", "/insurance")
	insuranceRoutes.POST("/ereceipts", ereceiptHandler.Upload)
	insuranceRoutes.GET("/ereceipts", ereceiptHandler.List)
	insuranceRoutes.GET("/ereceipts/:id", ereceiptHandler.GetByID)
	insuranceRoutes.GET("/ereceipts/:id/suggestions", ereceiptHandler.Suggestions)
	insuranceRoutes.POST("/ereceipts/:id/match", ereceiptHandler.Match)
	insuranceRoutes.POST("/ereceipts/:id/claim", ereceiptHandler.Claim)
	insuranceRoutes.POST("/ereceipts/:id/paid", ereceiptHandler.MarkPaid)
	insuranceRoutes.POST("/ereceipts/:id/reject", ereceiptHandler.Reject)
	insuranceRoutes.POST("/ereceipts/:id/upload-url", ereceiptHandler.GenerateUploadURL)
	insuranceRoutes.GET("/ereceipts/:id/download-url", ereceiptHandler.GenerateDownloadURL)
	insuranceRoutes.GET("/schemes", schemeHandler.List)
	insuranceRoutes.GET("/schemes/:id", schemeHandler.Get)
	insuranceRoutes.POST("/schemes", schemeHandler.Save)
	insuranceRoutes.DELETE("/schemes/:id", schemeHandler.Delete)

	r.Register(authRoutes).
		Register(tenantRoutes).
		Register(userRoutes).
		Register(patientRoutes).
		Register(appointmentRoutes).
		Register(deviceRoutes).
		Register(stockRoutes).
		Register(quoteRoutes).
		Register(invoiceRoutes).
		Register(insuranceRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// reminderScheduleFromCron maps a daily cron expression ("M H * * *")
// onto the reminder worker's hour/minute schedule. Anything it cannot
// parse falls back to the default evening run.
func reminderScheduleFromCron(spec string) scheduler.ReminderConfig {
	cfg := scheduler.DefaultReminderConfig()
	fields := strings.Fields(spec)
	if len(fields) < 2 {
		return cfg
	}
	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return cfg
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return cfg
	}
	cfg.Hour = hour
	cfg.Minute = minute
	return cfg
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
