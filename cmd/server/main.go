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

	"github.com/dom/weather-gate/internal/api"
	"github.com/dom/weather-gate/internal/config"
	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/kvstore"
	"github.com/dom/weather-gate/internal/repository"
	"github.com/dom/weather-gate/internal/repository/kv"
	"github.com/dom/weather-gate/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize repositories; a corrupt or unreadable store aborts startup
	repos, closeStores, err := openRepositories(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer closeStores()

	// Initialize services
	services := service.NewServices(repos, cfg)

	// Initialize router
	router := api.NewRouter(services, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + 2*cfg.WeatherTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (storage=%s)", cfg.Port, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repository.Repositories, func(), error) {
	var (
		users    kvstore.Store[domain.User]
		sessions kvstore.Store[domain.Session]
		closer   = func() {}
	)

	switch cfg.StorageDriver {
	case config.StorageFile:
		userFile, err := kvstore.OpenFile[domain.User](cfg.UsersFile)
		if err != nil {
			return nil, nil, err
		}
		sessionFile, err := kvstore.OpenFile[domain.Session](cfg.SessionsFile)
		if err != nil {
			return nil, nil, err
		}
		users, sessions = userFile, sessionFile

	case config.StoragePostgres:
		db, err := kvstore.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		closer = func() { sqlDB.Close() }
		users = kvstore.OpenGorm[domain.User](db, "users")
		sessions = kvstore.OpenGorm[domain.Session](db, "sessions")

	case config.StorageRedis:
		client, err := kvstore.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		closer = func() { client.Close() }
		users = kvstore.OpenRedis[domain.User](client, "weather-gate:users")
		sessions = kvstore.OpenRedis[domain.Session](client, "weather-gate:sessions")

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	repos, err := kv.NewRepositories(ctx, users, sessions)
	if err != nil {
		closer()
		return nil, nil, err
	}

	return repos, closer, nil
}
