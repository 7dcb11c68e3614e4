package main

import (
	"context"
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

	_ "github.com/ateliersante/room-planner-api/api/swagger"
	"github.com/ateliersante/room-planner-api/internal/handler"
	"github.com/ateliersante/room-planner-api/internal/middleware"
	"github.com/ateliersante/room-planner-api/internal/models"
	"github.com/ateliersante/room-planner-api/internal/repository"
	"github.com/ateliersante/room-planner-api/internal/scheduling"
	"github.com/ateliersante/room-planner-api/internal/service"
	"github.com/ateliersante/room-planner-api/pkg/cache"
	"github.com/ateliersante/room-planner-api/pkg/config"
	"github.com/ateliersante/room-planner-api/pkg/database"
	"github.com/ateliersante/room-planner-api/pkg/logger"
	corsmiddleware "github.com/ateliersante/room-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ateliersante/room-planner-api/pkg/middleware/requestid"
)

// @title Room Planner API
// @version 1.0.0
// @description Shared-room booking and reoptimization service
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
		logr.Sugar().Warnw("redis unavailable, reports will not be cached", "error", err)
		redisClient = nil
	}

	rooms := make([]models.Room, 0, len(cfg.Planner.Rooms))
	for _, rc := range cfg.Planner.Rooms {
		rooms = append(rooms, models.Room{ID: rc.ID, Name: rc.Name, Type: rc.Type, Capacity: rc.Capacity})
	}
	registry := models.NewRoomRegistry(rooms)
	engine := scheduling.NewEngine(cfg.Planner.BufferMinutes, cfg.Planner.HorizonDays)
	validate := validator.New()

	personRepo := repository.NewPersonRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr)
	reoptSvc := service.NewReoptimizeService(bookingRepo, personRepo, engine, cacheSvc, metricsSvc, cfg.Planner.SweepInterval, logr)
	personSvc := service.NewPersonService(personRepo, registry, reoptSvc, validate, logr)
	bookingSvc := service.NewBookingService(bookingRepo, personRepo, registry, engine, reoptSvc, validate, logr)
	recurringSvc := service.NewRecurringService(bookingRepo, personRepo, engine, reoptSvc, validate, logr)
	reportSvc := service.NewReportService(bookingRepo, personRepo, registry, engine, cacheSvc,
		cfg.Planner.DayStartHour, cfg.Planner.DayEndHour, cfg.Reports.CacheTTL, validate, logr)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reoptSvc.Start(rootCtx)
	defer reoptSvc.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	personHandler := handler.NewPersonHandler(personSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	recurringHandler := handler.NewRecurringHandler(recurringSvc)
	reoptHandler := handler.NewReoptimizeHandler(reoptSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	roomHandler := handler.NewRoomHandler(registry)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/rooms", roomHandler.List)

		api.GET("/people", personHandler.List)
		api.POST("/people", personHandler.Create)
		api.GET("/people/:id", personHandler.Get)
		api.PUT("/people/:id", personHandler.Update)
		api.DELETE("/people/:id", personHandler.Delete)
		api.POST("/people/:id/recurring-schedule/preview", recurringHandler.Preview)
		api.POST("/people/:id/recurring-schedule/commit", recurringHandler.Commit)

		api.GET("/bookings", bookingHandler.List)
		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings/:id", bookingHandler.Get)
		api.PUT("/bookings/:id", bookingHandler.Update)
		api.DELETE("/bookings/:id", bookingHandler.Delete)

		api.POST("/reoptimize", reoptHandler.Trigger)

		api.GET("/reports/availability", reportHandler.Availability)
		api.GET("/reports/slots", reportHandler.SearchSlots)
		api.GET("/reports/weekly-grid.pdf", reportHandler.WeeklyGridPDF)
		api.GET("/reports/weekly-grid.csv", reportHandler.WeeklyGridCSV)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
