package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sparkclean/cleantrack/internal/pkg/config"
	"github.com/sparkclean/cleantrack/internal/pkg/database"
	"github.com/sparkclean/cleantrack/internal/pkg/health"
	httpclient "github.com/sparkclean/cleantrack/internal/pkg/http"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/middleware"
	nrpkg "github.com/sparkclean/cleantrack/internal/pkg/newrelic"
	"github.com/sparkclean/cleantrack/internal/pkg/retry"
	"github.com/sparkclean/cleantrack/internal/pkg/server"
	"github.com/sparkclean/cleantrack/internal/pkg/validation"
	wspkg "github.com/sparkclean/cleantrack/internal/pkg/websocket"
	"github.com/sparkclean/cleantrack/services/tracking"
	"github.com/sparkclean/cleantrack/services/tracking/gateway"
	"github.com/sparkclean/cleantrack/services/tracking/handler"
	httpHandler "github.com/sparkclean/cleantrack/services/tracking/handler/http"
	wsHandler "github.com/sparkclean/cleantrack/services/tracking/handler/websocket"
	"github.com/sparkclean/cleantrack/services/tracking/repository"
	"github.com/sparkclean/cleantrack/services/tracking/usecase"
	"go.uber.org/zap"
)

func main() {
	appName := "tracking-service"
	configPath := config.GetEnv("CONFIG_PATH", "config/tracking.env")
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
	)

	// Redis keeps the last known snapshot; tracking works without it
	var snapshotRepo tracking.SnapshotRepo
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Warn("Redis unavailable, last known snapshots disabled", zap.Error(err))
	} else {
		snapshotRepo = repository.NewSnapshotRepository(redisClient)
	}

	// Booking API
	apiClient := httpclient.NewClient(httpclient.Config{
		BaseURL: configs.API.BaseURL,
		Token:   configs.API.Token,
		Timeout: configs.API.Timeout,
		Retry:   retry.DefaultConfig(),
	}, zapLogger)
	bookingGW := gateway.NewBookingGW(apiClient)

	// Live location transport, falls back to polling-only
	locationChannel, closeChannel := gateway.NewLocationChannel(configs.Realtime, appName)

	// Initialize UseCase
	fetcher := usecase.NewSnapshotFetcher(bookingGW, snapshotRepo, configs.Tracking.SnapshotTTL)
	controller := usecase.NewController(fetcher, locationChannel, usecase.NewPoller(nrApp), usecase.ControllerConfig{
		PollInterval:       configs.Tracking.PollInterval,
		MonotonicLocations: configs.Tracking.MonotonicLocations,
	})
	tracker := usecase.NewTracker(bookingGW, usecase.NewBookingListCache(), controller, usecase.TrackerConfig{
		ReloadInterval: configs.Tracking.BookingReloadInterval,
		NewRelic:       nrApp,
	})
	bookingOps := usecase.NewBookingOps(bookingGW, tracker)

	// Handlers
	trackingHandler := httpHandler.NewTrackingHandler(tracker)
	bookingHandler := httpHandler.NewBookingHandler(bookingOps)
	trackingWS := wsHandler.NewTrackingWSHandler(tracker, wspkg.NewManager(configs.WS.JWTSecret))
	trackingWS.Start()

	Handler := handler.NewHandler(trackingHandler, bookingHandler, trackingWS)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.EchoValidator{}

	// Add middlewares
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(nrpkg.EchoMiddleware(nrApp))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	// Register health endpoints
	health.RegisterHealthEndpoints(e, appName, configs.App.Version, readiness(tracker, redisClient))

	// Register service routes
	Handler.RegisterRoutes(e)

	if err := tracker.Mount(context.Background()); err != nil {
		zapLogger.Warn("Initial booking load failed, will retry on reload", zap.Error(err))
	}

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port, time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	components := srv.Components()
	// Components stop in reverse registration order, newrelic last.
	if nrApp != nil {
		components.Register("newrelic", func(context.Context) error {
			nrApp.Shutdown(5 * time.Second)
			return nil
		})
	}
	if redisClient != nil {
		components.Register("redis", func(context.Context) error { return redisClient.Close() })
	}
	components.Register("realtime", func(context.Context) error {
		closeChannel()
		return nil
	})
	components.Register("tracking", func(context.Context) error {
		trackingWS.Stop()
		tracker.Dismiss()
		return nil
	})

	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server stopped with error",
			zap.String("app", appName),
			zap.Error(err),
		)
	}
}

func readiness(uc tracking.TrackingUC, redisClient *database.RedisClient) health.ReadinessFunc {
	return func() (health.Readiness, bool) {
		report := health.Readiness{
			Status:       "ok",
			RealtimeMode: uc.RealtimeMode(),
			Checks:       map[string]string{},
		}
		if report.RealtimeMode != usecase.RealtimeModeLive {
			report.Status = "degraded"
		}
		report.Checks["bookings_updated_at"] = "never"
		if at := uc.State().BookingsUpdatedAt; at != nil {
			report.Checks["bookings_updated_at"] = at.UTC().Format(time.RFC3339)
		}

		if redisClient == nil {
			report.Checks["redis"] = "disabled"
			return report, true
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx); err != nil {
			report.Checks["redis"] = "unavailable"
			report.Status = "degraded"
		} else {
			report.Checks["redis"] = "ok"
		}
		return report, true
	}
}
