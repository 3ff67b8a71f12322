package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/clubatlas/club-adm-api/api/swagger"
	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/handler"
	"github.com/clubatlas/club-adm-api/internal/middleware"
	"github.com/clubatlas/club-adm-api/internal/repository"
	"github.com/clubatlas/club-adm-api/internal/router"
	"github.com/clubatlas/club-adm-api/internal/service"
	"github.com/clubatlas/club-adm-api/pkg/cache"
	"github.com/clubatlas/club-adm-api/pkg/config"
	"github.com/clubatlas/club-adm-api/pkg/database"
	"github.com/clubatlas/club-adm-api/pkg/export"
	"github.com/clubatlas/club-adm-api/pkg/logger"
)

// @title Club Atlas Administration API
// @version 1.0.0
// @description Role-gated management API for a sports club: roster, dues, attendance, events and certificates.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	guardianRepo := repository.NewGuardianRepository(db)
	dueRepo := repository.NewDueRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	eventRepo := repository.NewEventRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	playerSvc := service.NewPlayerService(playerRepo, userRepo, validate, logr)
	guardianSvc := service.NewGuardianService(guardianRepo, playerRepo, userRepo, validate, logr)
	dueSvc := service.NewDueService(dueRepo, playerRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, dueRepo, userRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, trainingRepo, eventRepo, playerRepo, validate, logr)
	trainingSvc := service.NewTrainingService(trainingRepo, userRepo, validate, logr)
	eventSvc := service.NewEventService(eventRepo, validate, logr)

	pdfExporter := export.NewPDFExporter(cfg.Club.Name)
	csvExporter := export.NewCSVExporter()
	certificateSvc := service.NewCertificateService(certificateRepo, playerRepo, pdfExporter, cfg.Certificates.ExpiryWarningDays, validate, logr)
	reportSvc := service.NewReportService(dueSvc, attendanceSvc, csvExporter, pdfExporter, logr)
	dashboardSvc := service.NewDashboardService(playerSvc, dueSvc, attendanceSvc, trainingSvc, eventSvc, certificateSvc, cacheRepo, cfg.Dashboard.CacheTTL, logr).WithMetrics(metricsSvc)

	resolver := access.NewResolver(playerRepo, guardianRepo)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, userSvc),
		Users:        handler.NewUserHandler(userSvc),
		Players:      handler.NewPlayerHandler(playerSvc),
		Guardians:    handler.NewGuardianHandler(guardianSvc),
		Dues:         handler.NewDueHandler(dueSvc),
		Payments:     handler.NewPaymentHandler(paymentSvc),
		Attendance:   handler.NewAttendanceHandler(attendanceSvc),
		Trainings:    handler.NewTrainingHandler(trainingSvc),
		Events:       handler.NewEventHandler(eventSvc),
		Certificates: handler.NewCertificateHandler(certificateSvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		Reports:      handler.NewReportHandler(reportSvc),
	}
	middlewares := router.Middlewares{
		JWT:        middleware.JWT(authSvc),
		Scope:      middleware.Scope(resolver),
		Invalidate: middleware.InvalidateDashboards(dashboardSvc),
		Metrics:    metricsSvc,
	}

	engine := router.New(cfg, logr, handlers, middlewares)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
}
