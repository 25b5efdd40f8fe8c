package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ahmadqo/museum-engagement-ledger/internal/cache"
	"github.com/ahmadqo/museum-engagement-ledger/internal/config"
	"github.com/ahmadqo/museum-engagement-ledger/internal/database"
	"github.com/ahmadqo/museum-engagement-ledger/internal/handler"
	"github.com/ahmadqo/museum-engagement-ledger/internal/observability"
	"github.com/ahmadqo/museum-engagement-ledger/internal/repository"
	"github.com/ahmadqo/museum-engagement-ledger/internal/service"
	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
)

// @title           Museum Engagement Ledger API
// @version         1.0
// @description     Backend multi-tenant untuk museu: obra, trilha, evento, gamifikasi dan sertifikat.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger := observability.NewLogger(cfg.App.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	// ── Tracing ──────────────────────────────────────────
	shutdownTracer, err := observability.InitTracer(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName, logger)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}

	// ── Database ─────────────────────────────────────────
	db, err := database.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := database.RunMigrations(ctx, db, migrationsPath, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	seeder := database.NewSeeder(db, logger)
	if err := seeder.SeedMasterUser(ctx); err != nil {
		logger.Warn("seed master user failed", zap.Error(err))
	}
	if cfg.App.Env == "development" {
		if err := seeder.SeedDemoTenant(ctx); err != nil {
			logger.Warn("seed demo tenant failed", zap.Error(err))
		}
	}

	// ── Storage (MinIO), opsional ──────────────────────────
	var storage utils.FileStorage
	minioStorage, err := utils.NewStorageService(ctx, &cfg.MinIO)
	if err != nil {
		logger.Warn("MinIO unavailable, uploads disabled", zap.Error(err))
	} else {
		storage = minioStorage
		logger.Info("MinIO connected", zap.String("bucket", cfg.MinIO.Bucket))
	}

	// ── Metrics & cache ──────────────────────────────────
	metrics := observability.NewMetrics()

	var board cache.LeaderboardCache = cache.NoopLeaderboardCache{}
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	switch {
	case err != nil:
		logger.Warn("redis unavailable, leaderboard cache disabled", zap.Error(err))
	case redisClient != nil:
		defer redisClient.Close()
		board = cache.NewLeaderboardCache(redisClient, cfg.Redis.TTL, metrics)
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	// ── Repositories ─────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	workRepo := repository.NewWorkRepository(db)
	trailRepo := repository.NewTrailRepository(db)
	eventRepo := repository.NewEventRepository(db)
	qrRepo := repository.NewQRCodeRepository(db)
	visitorRepo := repository.NewVisitorRepository(db)
	stampRepo := repository.NewStampRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	ruleRepo := repository.NewCertificateRuleRepository(db)
	templateRepo := repository.NewCertificateTemplateRepository(db)

	// ── Rule engine & PDF ────────────────────────────────
	engine := service.NewCertificateEngine(ruleRepo, certificateRepo, logger, metrics)
	progression := service.NewProgression(engine, board, logger)

	fetcher := utils.NewHTTPImageFetcher(cfg.Fetch.ImageTimeout, cfg.Fetch.MaxImageSize)
	renderer := utils.NewCertificateRenderer(fetcher, logger, metrics)
	mailer := utils.NewSMTPMailer(cfg.SMTP, logger)

	// ── Services ─────────────────────────────────────────
	authService := service.NewAuthService(userRepo, tenantRepo, visitorRepo, cfg, logger)
	tenantService := service.NewTenantService(tenantRepo, userRepo, logger)
	workService := service.NewWorkService(workRepo, tenantRepo)
	trailService := service.NewTrailService(trailRepo, workRepo, visitorRepo, progression)
	eventService := service.NewEventService(eventRepo, visitorRepo, progression)
	qrService := service.NewQRCodeService(qrRepo, workRepo, trailRepo, eventRepo, cfg.App.FrontendURL)
	uploadService := service.NewUploadService(storage)
	visitorService := service.NewVisitorService(
		visitorRepo, userRepo, tenantRepo, workRepo, qrRepo,
		stampRepo, achievementRepo, certificateRepo, progression, logger,
	)
	stampService := service.NewStampService(stampRepo, visitorRepo, workRepo)
	achievementService := service.NewAchievementService(achievementRepo, visitorRepo, progression, logger)
	leaderboardService := service.NewLeaderboardService(visitorRepo, board, logger)
	certificateService := service.NewCertificateService(
		certificateRepo, visitorRepo, userRepo, tenantRepo, trailRepo, eventRepo,
		templateRepo, renderer, mailer, logger, metrics, cfg.App.FrontendURL,
	)
	ruleService := service.NewCertificateRuleService(ruleRepo, templateRepo)
	templateService := service.NewCertificateTemplateService(templateRepo)

	// ── Router ───────────────────────────────────────────
	router := handler.NewRouter(handler.Handlers{
		Auth:                handler.NewAuthHandler(authService, logger),
		Tenant:              handler.NewTenantHandler(tenantService, logger),
		Work:                handler.NewWorkHandler(workService, logger),
		Trail:               handler.NewTrailHandler(trailService, logger),
		Event:               handler.NewEventHandler(eventService, logger),
		QRCode:              handler.NewQRCodeHandler(qrService, logger),
		Upload:              handler.NewUploadHandler(uploadService, logger),
		Visitor:             handler.NewVisitorHandler(visitorService, logger),
		Stamp:               handler.NewStampHandler(stampService, logger),
		Achievement:         handler.NewAchievementHandler(achievementService, logger),
		Leaderboard:         handler.NewLeaderboardHandler(leaderboardService, logger),
		Certificate:         handler.NewCertificateHandler(certificateService, logger),
		CertificateRule:     handler.NewCertificateRuleHandler(ruleService, logger),
		CertificateTemplate: handler.NewCertificateTemplateHandler(templateService, logger),
	}, cfg.JWT.Secret, logger, metrics)

	// ── HTTP Server ──────────────────────────────────────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server started", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}
