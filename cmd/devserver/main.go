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

	"ridepool/internal/backend"
	"ridepool/internal/config"
	"ridepool/internal/handlers"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/repositories/memory"
	"ridepool/internal/repositories/mongodb"
	"ridepool/pkg/cache"
	"ridepool/pkg/database"
	"ridepool/pkg/logger"
	"ridepool/pkg/push"
	"ridepool/pkg/sms"
	"ridepool/pkg/storage"
	"ridepool/pkg/websocket"
	"ridepool/routes"

	"github.com/gin-gonic/gin"
)

const maxPhotoBytes = 10 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     cfg.App.LogOutput,
		TimeFormat: time.RFC3339,
		AppName:    cfg.App.Name + "-devserver",
		Version:    cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := openRepositories(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open repositories")
	}
	defer cleanup()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create storage provider")
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	pushProvider, err := push.New(ctx, cfg.Push, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create push provider")
	}
	smsProvider, err := sms.New(ctx, cfg.SMS, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create sms provider")
	}
	devices := backend.NewDeviceNotifier(pushProvider, smsProvider, appLogger)

	hub := websocket.NewHub(appLogger)
	go hub.Run(ctx)
	wsHandler := websocket.NewHandler(hub, cfg.WebSocket)

	authService := backend.NewAuthService(repos.Users, cfg.Security, appLogger)
	rideService := backend.NewRideService(repos, wsHandler, cfg.App.Currency, appLogger)
	requestService := backend.NewRideRequestService(repos, wsHandler, devices, appLogger)
	historyService := backend.NewHistoryService(repos)
	userService := backend.NewUserService(repos, store, cfg.Storage.PhotoMaxSize, appLogger)
	chatService := backend.NewChatService(repos, wsHandler)

	router := routes.NewRouter(cfg, &routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, appLogger),
		Rides:     handlers.NewRideHandler(rideService, requestService, appLogger),
		History:   handlers.NewHistoryHandler(historyService, appLogger),
		Users:     handlers.NewUserHandler(userService, maxPhotoBytes, appLogger),
		Messages:  handlers.NewMessageHandler(chatService, appLogger),
		WebSocket: wsHandler,
	}, appLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithField("addr", srv.Addr).Info("Starting development server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Graceful shutdown failed")
	}
}

// openRepositories uses MongoDB when MONGODB_URI is set and the in-memory
// store otherwise. Redis, when enabled, caches ride lookups for Mongo.
func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*interfaces.Repositories, func(), error) {
	if cfg.Database.URI == "" {
		log.Info("Using in-memory repositories")
		return memory.NewRepositories(), func() {}, nil
	}

	db, err := database.NewMongoDB(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := database.EnsureIndexes(ctx, db.Database); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}

	var rideCache cache.Cache
	closers := []func() error{db.Close}
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		rideCache = redisCache
		closers = append(closers, redisCache.Close)
	}

	log.WithField("database", cfg.Database.Database).Info("Using MongoDB repositories")
	cleanup := func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.WithError(err).Warn("Close failed")
			}
		}
	}
	return mongodb.NewRepositories(db.Database, rideCache), cleanup, nil
}
