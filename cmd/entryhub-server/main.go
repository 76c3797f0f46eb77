package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	internalhttp "github.com/koronatech/entryhub/internal/api/http"
	"github.com/koronatech/entryhub/internal/db"
	"github.com/koronatech/entryhub/internal/devices"
	"github.com/koronatech/entryhub/internal/heartbeat"
	"github.com/koronatech/entryhub/internal/operators"
	"github.com/koronatech/entryhub/internal/relay"
)

var AppVersion string

func main() {
	InitConfig()

	slog.Info("EntryHub Server", "version", AppVersion)

	ctx := context.Background()

	var deviceStore devices.Store
	var operatorStore operators.Store

	switch config.Database.Driver {
	case "postgres":
		if err := db.RunMigrations(config.Database.Url); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		pool, err := db.InitDB(ctx, config.Database.Url)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		deviceStore = devices.NewPGStore(pool)
		operatorStore = operators.NewPGStore(pool)
	case "memory":
		slog.Warn("Using in-memory storage; registry state is lost on restart")
		deviceStore = devices.NewMemStore()
		operatorStore = operators.NewMemStore()
	default:
		slog.Error("Unknown storage driver", "driver", config.Database.Driver)
		os.Exit(1)
	}

	roster, err := devices.LoadRoster(config.Registry.RosterFile)
	if err != nil {
		slog.Error("Failed to load device roster", "error", err)
		os.Exit(1)
	}
	inserted, err := deviceStore.SeedRoster(ctx, roster)
	if err != nil {
		slog.Error("Failed to seed device roster", "error", err)
		os.Exit(1)
	}
	slog.Info("Device roster seeded", "records", len(roster), "inserted", inserted)

	operatorService := operators.NewService(operatorStore, config.Auth.Jwt)
	if err := operatorService.SeedAdmin(ctx, config.Auth.AdminUsername, config.Auth.AdminPassword); err != nil {
		slog.Error("Failed to seed operator account", "error", err)
		os.Exit(1)
	}

	services := &internalhttp.Services{
		Devices:    deviceStore,
		Processor:  heartbeat.NewProcessor(deviceStore),
		Relay:      relay.NewClient(time.Duration(config.Relay.TimeoutS) * time.Second),
		Operators:  operatorService,
		JWTSecret:  config.Auth.Jwt.Secret,
		Grace:      time.Duration(config.Registry.OnlineGraceS) * time.Second,
		ScannerLog: config.Registry.ScannerLog,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	// Agents talk to the registry directly; nothing in front of it is
	// trusted to rewrite client addresses.
	if err := engine.SetTrustedProxies(nil); err != nil {
		slog.Error("Failed to configure trusted proxies", "error", err)
		os.Exit(1)
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	internalhttp.SetupRoute(engine, services)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Http.Port),
		Handler: engine,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		slog.Error("Server error", "error", err)
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
