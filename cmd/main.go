package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/config"
	"github.com/TomasElordi/gestion-rural-api/internal/database/postgres"
	"github.com/TomasElordi/gestion-rural-api/internal/database/redis"
	"github.com/TomasElordi/gestion-rural-api/internal/handlers"
	"github.com/TomasElordi/gestion-rural-api/internal/logger"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogCfg.Level, cfg.LogCfg.Format, "gestion-rural-api"))
	defer func() { _ = baseLogger.Sync() }()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg, logger.Named(baseLogger, "postgres"))
	if err != nil {
		baseLogger.Warn("error connecting to database, retrying", zap.Error(err))
		var retried *sqlx.DB
		postgres.RetryConnectOnFailed(5*time.Second, &retried, cfg.PostgresCfg, logger.Named(baseLogger, "postgres"))
		db = retried
	}
	defer db.Close()

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg, logger.Named(baseLogger, "redis"))
	if err != nil {
		baseLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// repositories
	farmRepo := repository.NewFarmRepository(db, logger.Named(baseLogger, "repo.farms"))
	paddockRepo := repository.NewPaddockRepository(db, logger.Named(baseLogger, "repo.paddocks"))
	waterPointRepo := repository.NewWaterPointRepository(db, logger.Named(baseLogger, "repo.water_points"))
	herdGroupRepo := repository.NewHerdGroupRepository(db, logger.Named(baseLogger, "repo.herd_groups"))
	grazingEventRepo := repository.NewGrazingEventRepository(db, logger.Named(baseLogger, "repo.grazing_events"))
	insightsRepo := repository.NewInsightsRepository(db, logger.Named(baseLogger, "repo.insights"))
	userRepo := repository.NewUserRepository(db, logger.Named(baseLogger, "repo.users"))
	geometryRepo := repository.NewGeometryRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient.GetClient())

	// services
	access := services.NewFarmAccess(farmRepo)
	jwtService := services.NewJWTService(cfg.AuthCfg)
	ugmCalculator := services.NewUGMCalculator(cfg.GrazingCfg.UGMKgEquivalence)

	authService := services.NewAuthService(userRepo, sessionRepo, jwtService, logger.Named(baseLogger, "svc.auth"))
	farmService := services.NewFarmService(access, farmRepo, paddockRepo, waterPointRepo, herdGroupRepo, grazingEventRepo, logger.Named(baseLogger, "svc.farms"))
	paddockService := services.NewPaddockService(access, paddockRepo, geometryRepo, logger.Named(baseLogger, "svc.paddocks"))
	waterPointService := services.NewWaterPointService(access, waterPointRepo, logger.Named(baseLogger, "svc.water_points"))
	herdGroupService := services.NewHerdGroupService(access, herdGroupRepo, ugmCalculator, logger.Named(baseLogger, "svc.herd_groups"))
	grazingEventService := services.NewGrazingEventService(access, grazingEventRepo, paddockRepo, herdGroupRepo, logger.Named(baseLogger, "svc.grazing_events"))
	insightsService := services.NewInsightsService(access, insightsRepo, cfg.GrazingCfg, logger.Named(baseLogger, "svc.insights"))

	// handlers
	middleware := handlers.NewMiddleware(jwtService, logger.Named(baseLogger, "handlers.middleware"))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), handlers.ZapLogger(logger.Named(baseLogger, "http")), handlers.CORS(cfg.CORSOrigin))

	router.GET("/checkhealth", func(c *gin.Context) {
		if err := postgres.Ping(c.Request.Context(), db); err != nil {
			baseLogger.Warn("database health check failed", zap.Error(err))
			c.String(http.StatusServiceUnavailable, "database unavailable")
			return
		}
		if err := redisClient.Ping(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		c.String(http.StatusOK, "Gestion rural API is healthy")
	})

	handlers.NewAuthHandler(authService, middleware, logger.Named(baseLogger, "handlers.auth")).RegisterRoutes(router)
	handlers.NewFarmHandler(farmService, middleware, logger.Named(baseLogger, "handlers.farms")).RegisterRoutes(router)
	handlers.NewPaddockHandler(paddockService, middleware, logger.Named(baseLogger, "handlers.paddocks")).RegisterRoutes(router)
	handlers.NewWaterPointHandler(waterPointService, middleware, logger.Named(baseLogger, "handlers.water_points")).RegisterRoutes(router)
	handlers.NewHerdGroupHandler(herdGroupService, middleware, logger.Named(baseLogger, "handlers.herd_groups")).RegisterRoutes(router)
	handlers.NewGrazingEventHandler(grazingEventService, middleware, logger.Named(baseLogger, "handlers.grazing_events")).RegisterRoutes(router)
	handlers.NewInsightsHandler(insightsService, middleware, logger.Named(baseLogger, "handlers.insights")).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
