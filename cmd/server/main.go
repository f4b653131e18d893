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
	"go.uber.org/zap/zapcore"

	"github.com/safeboxlab/safebox/internal/alert"
	"github.com/safeboxlab/safebox/internal/api/handlers"
	"github.com/safeboxlab/safebox/internal/config"
	"github.com/safeboxlab/safebox/internal/models"
	"github.com/safeboxlab/safebox/internal/mqtt"
	"github.com/safeboxlab/safebox/internal/repository"
	"github.com/safeboxlab/safebox/internal/service"
	"github.com/safeboxlab/safebox/pkg/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting Safebox", zap.String("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	geofenceRepo := repository.NewGeofenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	wsHub := ws.NewHub(logger)
	go wsHub.Run()
	dashboard := &dashboardBroadcaster{hub: wsHub}

	// Alert pipeline
	registry := alert.NewRegistry()
	dispatcher := alert.NewDispatcher(logger, notificationRepo, dashboard)
	thresholds := alert.NewThresholdEvaluator(registry, dispatcher)
	geofenceEval := alert.NewGeofenceEvaluator(logger, geofenceRepo, registry, dispatcher)

	ingest := service.NewIngestService(
		logger,
		vehicleRepo,
		historyRepo,
		dashboard,
		geofenceEval,
		thresholds,
	)

	mqttClient, err := mqtt.NewClient(cfg.MQTTBroker, cfg.MQTTClientID)
	if err != nil {
		logger.Fatal("Failed to connect MQTT broker", zap.Error(err))
	}
	defer mqttClient.Disconnect(250)
	logger.Info("Connected to MQTT broker", zap.String("broker", cfg.MQTTBroker))

	subscriber := mqtt.NewSubscriber(mqttClient, ingest, logger)
	if err := subscriber.Start(); err != nil {
		logger.Fatal("Failed to subscribe to device topics", zap.Error(err))
	}

	commands := service.NewCommandService(logger, vehicleRepo, mqtt.NewCommandPublisher(mqttClient))
	wsHub.SetCommandHandler(func(deviceID, command string) {
		if err := commands.Send(context.Background(), deviceID, command); err != nil {
			logger.Error("Failed to send command",
				zap.Error(err),
				zap.String("device_id", deviceID),
			)
		}
	})

	analytics := service.NewAnalyticsService(logger, vehicleRepo, historyRepo, notificationRepo)

	handler := handlers.NewHandler(
		logger,
		userRepo,
		vehicleRepo,
		geofenceRepo,
		notificationRepo,
		analytics,
		wsHub,
		geofenceEval,
	)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// dashboardBroadcaster adapts the generic hub to the typed events the
// alert and ingestion pipelines emit.
type dashboardBroadcaster struct {
	hub *ws.Hub
}

func (b *dashboardBroadcaster) BroadcastAlert(event models.AlertEvent) {
	b.hub.BroadcastEvent(ws.EventAlert, event)
}

func (b *dashboardBroadcaster) BroadcastDeviceData(data models.DeviceData) {
	b.hub.BroadcastEvent(ws.EventDeviceData, data)
}

func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
