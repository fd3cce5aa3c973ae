package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/routecast/service-routes/internal/application"
	"github.com/routecast/service-routes/internal/config"
	routeEvents "github.com/routecast/service-routes/internal/events"
	"github.com/routecast/service-routes/internal/handler"
	"github.com/routecast/service-routes/internal/platform/health"
	"github.com/routecast/service-routes/internal/platform/kafka"
	"github.com/routecast/service-routes/internal/platform/logger"
	"github.com/routecast/service-routes/internal/platform/middleware"
	"github.com/routecast/service-routes/internal/provider/googlemaps"
	"github.com/routecast/service-routes/internal/provider/openweather"
	"github.com/routecast/service-routes/internal/web"
)

const serviceName = "service-routes"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-routes",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Initialize providers
	directions := googlemaps.NewDirectionsClient(
		cfg.Directions.BaseURL, cfg.Directions.APIKey, cfg.Directions.Timeout, log.Named("directions"))
	weatherClient := openweather.NewClient(
		cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout, log.Named("weather"))

	// Initialize route event publisher
	var publisher application.EventPublisher = routeEvents.NopPublisher{}
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = routeEvents.NewRouteEventPublisher(kafkaProducer, cfg.KafkaConfig.Topic, log)
		log.Info("route events enabled",
			zap.Strings("brokers", cfg.KafkaConfig.Brokers),
			zap.String("topic", cfg.KafkaConfig.Topic),
		)
	} else {
		log.Info("route events disabled, no kafka brokers configured")
	}

	// Initialize application service
	hub := handler.NewViewHub()
	sessionService := application.NewSessionService(
		directions,
		weatherClient,
		publisher,
		hub,
		application.SessionServiceConfig{
			IdleTTL:        cfg.SessionIdleTTL,
			WeatherTimeout: cfg.Weather.Timeout,
		},
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		log.Info("starting idle session janitor", zap.Duration("ttl", cfg.SessionIdleTTL))
		sessionService.RunJanitor(ctx, time.Minute)
	}()

	// Initialize HTTP handlers
	sessionHandler := handler.NewSessionHandler(sessionService, hub, log)
	adminHandler := handler.NewAdminSessionHandler(sessionService)

	// Setup Gin router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(serviceName, map[string]health.Checker{
		"sessions": sessionService,
	})
	healthHandler.RegisterRoutes(router)

	// Register routes
	web.RegisterRoutes(router)
	sessionHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server. WriteTimeout stays zero so WebSocket streams are not cut off.
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-routes...")

	// Stop the janitor
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	sessionService.Shutdown()

	log.Info("service-routes stopped")
}
