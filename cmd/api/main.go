package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/skill-assessment-api/api/swagger"
	"github.com/noah-isme/skill-assessment-api/internal/handler"
	"github.com/noah-isme/skill-assessment-api/internal/middleware"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/internal/repository"
	"github.com/noah-isme/skill-assessment-api/internal/service"
	"github.com/noah-isme/skill-assessment-api/pkg/cache"
	"github.com/noah-isme/skill-assessment-api/pkg/config"
	"github.com/noah-isme/skill-assessment-api/pkg/database"
	"github.com/noah-isme/skill-assessment-api/pkg/jobs"
	"github.com/noah-isme/skill-assessment-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/skill-assessment-api/pkg/middleware/cors"
	"github.com/noah-isme/skill-assessment-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/skill-assessment-api/pkg/middleware/requestid"
	"github.com/noah-isme/skill-assessment-api/pkg/middleware/timeout"
)

// @title Skill Assessment API
// @version 1.0.0
// @description Skill assessment workflow: initiation, lead scoring, employee review and HR approval.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	readiness := map[string]handler.ReadinessCheck{"postgres": db.PingContext}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, team view cache disabled", "error", err)
		} else {
			redisRepo := repository.NewCacheRepository(redisClient, logr)
			defer redisRepo.Close() //nolint:errcheck
			readiness["redis"] = redisRepo.Ping
			cacheRepo = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TeamTTL, logr, cfg.Cache.Enabled)

	users := repository.NewUserRepository(db)
	skills := repository.NewSkillRepository(db)
	assessments := repository.NewAssessmentRepository(db)
	cycles := repository.NewCycleRepository(db)

	validate := validator.New()
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
	})
	assessmentSvc := service.NewAssessmentService(assessments, users, skills, validate, logr,
		service.WithRecurrenceInterval(cfg.Assessment.RecurrenceInterval),
		service.WithTeamViewCache(cacheSvc),
		service.WithTransitionRecorder(metricsSvc),
	)
	cycleSvc := service.NewCycleService(cycles, users, assessments, assessmentSvc, validate, metricsSvc, logr)
	teamSvc := service.NewTeamService(users, assessments, cacheSvc, cfg.Cache.TeamTTL, logr)
	schedulerSvc := service.NewSchedulerService(assessments, users, cacheSvc, metricsSvc, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweepQueue := jobs.NewQueue("activation-sweep", schedulerSvc.HandleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 8,
		MaxRetries: cfg.Sweep.Retries,
		RetryDelay: cfg.Sweep.RetryDelay,
		Logger:     logr,
		OnExhausted: func(job jobs.Job, err error) {
			logr.Error("activation sweep gave up", zap.String("job", job.ID), zap.Error(err))
		},
	})
	sweepQueue.Start(ctx)
	defer sweepQueue.Stop()
	if cfg.Sweep.Enabled {
		go runDailySweep(ctx, sweepQueue, cfg.Sweep.Hour, logr)
	}

	assessmentHandler := handler.NewAssessmentHandler(assessmentSvc)
	cycleHandler := handler.NewCycleHandler(cycleSvc)
	teamHandler := handler.NewTeamHandler(teamSvc)
	skillHandler := handler.NewSkillHandler(skills)
	schedulerHandler := handler.NewSchedulerHandler(sweepQueue)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, readiness)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	hrOnly := middleware.RequireRoles(models.RoleHR)
	leadOnly := middleware.RequireRoles(models.RoleLead)

	api := r.Group(cfg.APIPrefix)
	api.Use(timeout.Middleware(cfg.RequestTimeout))
	api.Use(middleware.JWT(authSvc))

	api.GET("/skills", skillHandler.List)

	assessmentRoutes := api.Group("/assessments")
	assessmentRoutes.POST("", hrOnly, assessmentHandler.Initiate)
	assessmentRoutes.GET("", assessmentHandler.List)
	assessmentRoutes.GET("/pending", assessmentHandler.Pending)
	assessmentRoutes.GET("/:id", assessmentHandler.Get)
	assessmentRoutes.POST("/:id/lead-scores", assessmentHandler.SubmitLeadScores)
	assessmentRoutes.POST("/:id/employee-review", assessmentHandler.EmployeeReview)
	assessmentRoutes.POST("/:id/final-review/start", hrOnly, assessmentHandler.StartFinalReview)
	assessmentRoutes.POST("/:id/final-review", hrOnly, assessmentHandler.FinalReview)
	assessmentRoutes.POST("/:id/cancel", hrOnly, assessmentHandler.Cancel)

	cycleRoutes := api.Group("/assessment-cycles", hrOnly)
	cycleRoutes.POST("", ratelimit.New(cfg.RateLimit.BulkRequests, cfg.RateLimit.BulkWindow).Middleware(), cycleHandler.InitiateBulk)
	cycleRoutes.GET("", cycleHandler.List)
	cycleRoutes.GET("/:id", cycleHandler.Get)
	cycleRoutes.POST("/:id/cancel", cycleHandler.Cancel)

	teamRoutes := api.Group("/team", leadOnly)
	teamRoutes.GET("/assessments", teamHandler.Assessments)
	teamRoutes.GET("/assessments/pending", teamHandler.Pending)
	teamRoutes.GET("/members/:userId/assessments", teamHandler.MemberAssessments)
	teamRoutes.GET("/statistics", teamHandler.Statistics)
	api.GET("/teams/:teamId/summary", hrOnly, teamHandler.Summary)
	api.GET("/users/:userId/latest-scores", teamHandler.LatestScores)

	schedulerRoutes := api.Group("/scheduler", hrOnly)
	schedulerRoutes.POST("/activation-sweep", schedulerHandler.TriggerSweep)
	schedulerRoutes.GET("/stats", schedulerHandler.Stats)
	api.GET("/metrics/summary", hrOnly, metricsHandler.Summary)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// runDailySweep enqueues one catch-up sweep at startup and then one per day at hour.
// A duplicate enqueue means the day's sweep is still pending and is ignored.
func runDailySweep(ctx context.Context, queue *jobs.Queue, hour int, logr *zap.Logger) {
	enqueue := func(now time.Time) {
		if err := queue.Enqueue(service.SweepJob(now)); err != nil && !errors.Is(err, jobs.ErrDuplicate) {
			logr.Warn("failed to enqueue activation sweep", zap.Error(err))
		}
	}
	enqueue(time.Now().UTC())
	for {
		now := time.Now().UTC()
		// the extra second keeps a timer that fired on the hour from re-arming for the same slot
		timer := time.NewTimer(service.NextSweepAt(now.Add(time.Second), hour).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case fired := <-timer.C:
			enqueue(fired.UTC())
		}
	}
}
