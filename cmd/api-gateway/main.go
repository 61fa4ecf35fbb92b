package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/ops-shift-api/api/swagger"
	"github.com/noah-isme/ops-shift-api/internal/handler"
	internalmiddleware "github.com/noah-isme/ops-shift-api/internal/middleware"
	"github.com/noah-isme/ops-shift-api/internal/repository"
	"github.com/noah-isme/ops-shift-api/internal/service"
	"github.com/noah-isme/ops-shift-api/pkg/cache"
	"github.com/noah-isme/ops-shift-api/pkg/config"
	"github.com/noah-isme/ops-shift-api/pkg/database"
	"github.com/noah-isme/ops-shift-api/pkg/jobs"
	"github.com/noah-isme/ops-shift-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ops-shift-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ops-shift-api/pkg/middleware/requestid"
)

// @title Ops Shift API
// @version 0.1.0
// @description Shift scheduling, rule validation and duty resolution for the operations desk
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	site, err := time.LoadLocation(cfg.Site.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid site timezone", "timezone", cfg.Site.Timezone, "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Duty.CacheTTL, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Duty.CacheTTL, logr, true)
	}

	staffRepo := repository.NewStaffProfileRepository(db)
	assignmentRepo := repository.NewShiftAssignmentRepository(db)
	checklistRepo := repository.NewDutyChecklistRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: cfg.Audit.MaxRetries,
		Logger:     logr,
	}, logr)
	auditSvc.Start(context.Background())
	defer auditSvc.Stop()

	validatorSvc := service.NewValidatorService(staffRepo, assignmentRepo, logr, service.ValidatorServiceConfig{
		SabbathWeekdays: cfg.Duty.SabbathWeekdays,
	})
	swapSvc := service.NewSwapService(assignmentRepo, staffRepo, validatorSvc, auditSvc, cacheSvc, logr, service.SwapServiceConfig{
		LockTimeout: cfg.Swap.LockTimeout,
	})
	scheduleSvc := service.NewScheduleService(assignmentRepo, staffRepo, validatorSvc, nil, auditSvc, cacheSvc, metricsSvc, logr)
	profileSvc := service.NewStaffProfileService(staffRepo, auditSvc, cacheSvc, logr)
	dutySvc := service.NewDutyService(service.DutyServiceParams{
		Staff:      staffRepo,
		Assignment: assignmentRepo,
		Checklist:  checklistRepo,
		Cache:      cacheSvc,
		Metrics:    metricsSvc,
		Site:       site,
		Logger:     logr,
		Config:     service.DutyServiceConfig{CacheTTL: cfg.Duty.CacheTTL},
	})

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, validatorSvc, metricsSvc)
	swapHandler := handler.NewSwapHandler(swapSvc, metricsSvc)
	dutyHandler := handler.NewDutyHandler(dutySvc, metricsSvc)
	profileHandler := handler.NewStaffProfileHandler(profileSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/staff-profiles", profileHandler.List)
		api.GET("/staff-profiles/:id", profileHandler.Get)
		api.POST("/staff-profiles", profileHandler.Upsert)
		api.PUT("/staff-profiles", profileHandler.Upsert)

		api.POST("/schedule/validate", scheduleHandler.Validate)
		api.POST("/schedule/can-assign", scheduleHandler.CanAssign)
		api.GET("/schedule/periods/:id/validation", scheduleHandler.PeriodReport)

		api.GET("/assignments", scheduleHandler.ListAssignments)
		api.POST("/assignments/bulk", scheduleHandler.BulkCreate)
		api.POST("/assignments/:id/swap", swapHandler.Swap)

		api.GET("/duties/current", dutyHandler.Current)

		api.GET("/metrics/summary", metricsHandler.Snapshot)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "site_timezone", cfg.Site.Timezone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	logr.Sugar().Infow("server stopped")
}
