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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/smart-attendance-api/api/swagger"
	"github.com/noah-isme/smart-attendance-api/internal/clock"
	"github.com/noah-isme/smart-attendance-api/internal/handler"
	internalmw "github.com/noah-isme/smart-attendance-api/internal/middleware"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
	"github.com/noah-isme/smart-attendance-api/internal/service"
	"github.com/noah-isme/smart-attendance-api/pkg/cache"
	"github.com/noah-isme/smart-attendance-api/pkg/config"
	"github.com/noah-isme/smart-attendance-api/pkg/database"
	"github.com/noah-isme/smart-attendance-api/pkg/export"
	"github.com/noah-isme/smart-attendance-api/pkg/jobs"
	"github.com/noah-isme/smart-attendance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/smart-attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/smart-attendance-api/pkg/middleware/requestid"
	"github.com/noah-isme/smart-attendance-api/pkg/storage"
)

// @title Smart Attendance API
// @version 0.1.0
// @description Attendance capture and ranking engine
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

	dayClock, err := clock.NewZoneClock(cfg.Attendance.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid attendance timezone", "zone", cfg.Attendance.Timezone, "error", err)
	}

	var kv repository.KV
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		if cfg.Env == config.EnvProduction {
			logr.Sugar().Fatalw("redis unavailable", "error", err)
		}
		logr.Sugar().Warnw("redis unavailable, using in-memory store (attendance will not survive restarts)", "error", err)
		kv = repository.NewMemoryKV()
	} else {
		kv = repository.NewRedisKV(redisClient)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres unavailable", "error", err)
	}
	defer db.Close() //nolint:errcheck

	files, err := storage.NewReportStore(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("export storage unavailable", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	rosterRepo := repository.NewRosterRepository(db)
	sessionRepo := repository.NewSessionRepository(kv)
	historyRepo := repository.NewHistoryRepository(kv)
	artifactRepo := repository.NewExportArtifactRepository(kv)

	metricsSvc := service.NewMetricsService()
	sessionSvc := service.NewSessionService(rosterRepo, sessionRepo, dayClock, logr)
	rankingSvc := service.NewRankingService(historyRepo, logr)
	notifySvc := service.NewNotificationService(rosterRepo, cfg.SMS, nil, logr)
	exportSvc := service.NewExportService(export.NewPDFExporter(), export.NewCSVExporter(), files, signer, artifactRepo, logr)
	dashboardSvc := service.NewDashboardService(sessionRepo, rankingSvc, dayClock, cfg.Attendance.ClassDept, cfg.Attendance.SectionSemester, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sideEffects := jobs.NewQueue("attendance-side-effects",
		service.NewSideEffectHandler(notifySvc, exportSvc, metricsSvc, logr),
		jobs.QueueConfig{Workers: 1, BufferSize: cfg.Exports.WorkerBuffer, Logger: logr},
	)
	sideEffects.Start(ctx)
	defer sideEffects.Stop()

	submitSvc := service.NewSubmissionService(sessionSvc, sessionRepo, historyRepo, sideEffects, metricsSvc, logr)

	validate := validator.New()
	attendanceHandler := handler.NewAttendanceHandler(sessionSvc, submitSvc, historyRepo, validate, cfg.Attendance.EnableManualReset)
	rankingHandler := handler.NewRankingHandler(rankingSvc, dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	go cleanupLoop(ctx, files, cfg.Exports.CleanupInterval, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmw.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/attendance/today", attendanceHandler.Today)
		api.POST("/attendance/today/marks", attendanceHandler.Toggle)
		api.POST("/attendance/today/submit", attendanceHandler.Submit)
		api.POST("/attendance/today/reset", attendanceHandler.Reset)
		api.GET("/attendance/history", attendanceHandler.History)
		api.GET("/rankings/leaderboard", rankingHandler.Leaderboard)
		api.GET("/dashboard/home", rankingHandler.Home)
		api.GET("/exports/latest", exportHandler.Latest)
		api.GET("/exports/download", exportHandler.Download)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "zone", cfg.Attendance.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// exportRetention is how long generated report files are kept on disk.
// The latest artifact pointer is re-rendered on every submission, so old
// files only matter until the next school day.
const exportRetention = 30 * 24 * time.Hour

func cleanupLoop(ctx context.Context, files *storage.ReportStore, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := files.CleanupOlderThan(exportRetention)
			if err != nil {
				logr.Sugar().Warnw("export cleanup failed", "error", err)
				continue
			}
			if len(deleted) > 0 {
				logr.Sugar().Infow("pruned old export files", "count", len(deleted))
			}
		}
	}
}
