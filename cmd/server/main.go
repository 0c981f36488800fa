package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant_backend/internal/cache"
	"restaurant_backend/internal/config"
	"restaurant_backend/internal/database"
	"restaurant_backend/internal/events"
	"restaurant_backend/internal/metrics"
	"restaurant_backend/internal/router"
	"restaurant_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", true)
		utils.LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		utils.LogError(err, "Server stopped with error")
		os.Exit(1)
	}
}

// run opens every resource after configuration and closes them before returning.
func run(cfg *config.Config) error {
	// Initialize Database
	db, err := database.InitDB(cfg.DSN())
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	deps := router.Deps{DB: db, Config: cfg, Metrics: metrics.New()}

	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			utils.LogWarn("Redis unavailable, menu cache disabled", map[string]interface{}{"addr": cfg.Redis.Addr, "error": err.Error()})
		} else {
			defer client.Close()
			deps.MenuCache = cache.NewMenuCache(client, cfg.Redis.MenuTTL)
			utils.LogInfo("Menu cache enabled", map[string]interface{}{"addr": cfg.Redis.Addr, "ttl": cfg.Redis.MenuTTL.String()})
		}
	}

	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		publisher := events.NewOrderPublisher(events.NewKafkaWriter(brokers, cfg.Kafka.OrderTopic))
		defer func() {
			if err := publisher.Close(); err != nil {
				utils.LogWarn("Failed to close order publisher", map[string]interface{}{"error": err.Error()})
			}
		}()
		deps.OrderEvents = publisher
		utils.LogInfo("Order events enabled", map[string]interface{}{"brokers": brokers, "topic": cfg.Kafka.OrderTopic})
	}

	stop := make(chan struct{})
	deps.Stop = stop

	engine := gin.New()
	app := router.Setup(engine, deps)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := app.Users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			utils.LogError(err, "Failed to bootstrap admin account", map[string]interface{}{"email": cfg.AdminEmail})
		} else {
			utils.LogInfo("Admin account ready", map[string]interface{}{"email": cfg.AdminEmail})
		}
		cancel()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "env": cfg.AppEnv})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case <-sigChan:
		utils.LogInfo("Shutting down server")
	case err := <-serveErr:
		runErr = fmt.Errorf("serving http: %w", err)
	}

	close(stop)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
	return runErr
}
