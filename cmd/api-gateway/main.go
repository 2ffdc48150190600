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

	_ "github.com/noah-isme/substitute-matcher/api/swagger"
	"github.com/noah-isme/substitute-matcher/internal/handler"
	internalmiddleware "github.com/noah-isme/substitute-matcher/internal/middleware"
	"github.com/noah-isme/substitute-matcher/internal/models"
	"github.com/noah-isme/substitute-matcher/internal/repository"
	"github.com/noah-isme/substitute-matcher/internal/service"
	"github.com/noah-isme/substitute-matcher/pkg/cache"
	"github.com/noah-isme/substitute-matcher/pkg/config"
	"github.com/noah-isme/substitute-matcher/pkg/database"
	"github.com/noah-isme/substitute-matcher/pkg/logger"
	corsmiddleware "github.com/noah-isme/substitute-matcher/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/substitute-matcher/pkg/middleware/requestid"
)

// @title Substitute Matcher API
// @version 1.0.0
// @description Ranks substitute employees against open assignment requests.
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, candidate cache disabled", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()

	requestRepo := repository.NewAssignmentRequestRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	substituteRepo := repository.NewSubstituteRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	configRepo := repository.NewConfigurationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Matching.CacheTTL, logr, redisClient != nil && cfg.Matching.CacheReads)
	settingsSvc := service.NewMatchingSettingsService(configRepo, validate, logr)
	matchingSvc := service.NewMatchingService(
		requestRepo,
		branchRepo,
		substituteRepo,
		assignmentRepo,
		candidateRepo,
		settingsSvc,
		db,
		cacheSvc,
		metricsSvc,
		logr,
		service.MatchingServiceConfig{
			RunTimeout: cfg.Matching.RunTimeout,
			Workers:    cfg.Matching.Workers,
			CacheTTL:   cfg.Matching.CacheTTL,
		},
	)

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	matchingHandler := handler.NewMatchingHandler(matchingSvc, settingsSvc, validate)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	registerRoutes(r, cfg, tokenSvc, metricsHandler, matchingHandler, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Matching.RunTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	tokens *service.TokenService,
	metrics *handler.MetricsHandler,
	matching *handler.MatchingHandler,
	logr *zap.Logger,
) {
	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokens))

	api.GET("/metrics/summary", internalmiddleware.RequireRoles(models.RoleAdmin), metrics.Summary)

	if !cfg.Matching.Enabled {
		logr.Warn("matching endpoints disabled by ENABLE_MATCHING")
		return
	}

	requests := api.Group("/assignment-requests/:id")
	requests.POST("/match", internalmiddleware.RequireRoles(models.RoleAdmin, models.RolePlanner), matching.Run)
	requests.GET("/candidates", matching.Candidates)

	settings := api.Group("/matching/settings")
	settings.GET("", matching.Settings)
	settings.PUT("", internalmiddleware.RequireRoles(models.RoleAdmin), matching.UpdateSettings)
}
