package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	internalhandler "github.com/noah-isme/library-duty-scheduler/internal/handler"
	internalmiddleware "github.com/noah-isme/library-duty-scheduler/internal/middleware"
	"github.com/noah-isme/library-duty-scheduler/internal/repository"
	"github.com/noah-isme/library-duty-scheduler/internal/service"
	"github.com/noah-isme/library-duty-scheduler/pkg/cache"
	"github.com/noah-isme/library-duty-scheduler/pkg/config"
	"github.com/noah-isme/library-duty-scheduler/pkg/database"
	"github.com/noah-isme/library-duty-scheduler/pkg/jobs"
	"github.com/noah-isme/library-duty-scheduler/pkg/logger"
	corsmiddleware "github.com/noah-isme/library-duty-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/library-duty-scheduler/pkg/middleware/requestid"
)

// @title Library Duty Scheduler API
// @version 1.0.0
// @description Constraint-based library duty roster generator
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("cache disabled: redis unreachable", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	// notifyQueue carries the single post-commit "schedule activated" side
	// effect. It never touches the allocation itself, which stays
	// synchronous per the core's single-threaded contract.
	notifyQueue := jobs.NewQueue("schedule-notifications", func(_ context.Context, job jobs.Job) error {
		logr.Sugar().Infow("schedule activated", "schedule_id", job.ID, "type", job.Type)
		return nil
	}, jobs.QueueConfig{Workers: 1, BufferSize: 16, MaxRetries: 3, RetryDelay: 5 * time.Second, Logger: logr})

	queueCtx, cancelQueue := context.WithCancel(context.Background())
	notifyQueue.Start(queueCtx)
	defer func() {
		cancelQueue()
		notifyQueue.Stop()
	}()

	schoolRepo := repository.NewSchoolRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	roomRepo := repository.NewLibraryRoomRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	validate := validator.New()

	schedulerSvc := service.NewScheduleGeneratorService(
		schoolRepo,
		memberRepo,
		roomRepo,
		scheduleRepo,
		cacheSvc,
		metricsSvc,
		notifyQueue,
		validate,
		logr,
		service.ScheduleGeneratorConfig{Seed: cfg.Scheduler.Seed},
	)
	schedulerHandler := internalhandler.NewScheduleGeneratorHandler(schedulerSvc, cacheSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.WithResponseMeta())
	api.POST("/schools/:schoolId/schedules/generate", schedulerHandler.Generate)
	api.GET("/schools/:schoolId/schedules", schedulerHandler.List)
	api.GET("/schools/:schoolId/schedules/export.csv", schedulerHandler.ExportCSV)
	api.GET("/schedules/:id", schedulerHandler.GetAssignments)
	api.GET("/schedules/:id/statistics", schedulerHandler.Statistics)
	api.GET("/schedules/:id/export.pdf", schedulerHandler.ExportPDF)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
