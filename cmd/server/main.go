package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kh4lidmd/portfolio-backend/internal/api"
	"github.com/kh4lidmd/portfolio-backend/internal/api/handlers"
	"github.com/kh4lidmd/portfolio-backend/internal/assets"
	"github.com/kh4lidmd/portfolio-backend/internal/configuration"
	"github.com/kh4lidmd/portfolio-backend/internal/services"
	"github.com/kh4lidmd/portfolio-backend/internal/storage"
)

func main() {
	cfg := configuration.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	db, err := storage.Connect(cfg.Database.ConnectionString())
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		hash, err := services.HashPassword(cfg.Auth.AdminPassword)
		if err != nil {
			logrus.Fatalf("failed to hash admin password: %v", err)
		}
		if err := db.SeedAdmin(cfg.Auth.AdminEmail, hash); err != nil {
			logrus.Fatalf("failed to seed admin user: %v", err)
		}
	}

	if err := assets.EnsureScratchDir(cfg.Storage.ScratchDir); err != nil {
		logrus.Fatalf("failed to prepare scratch directory: %v", err)
	}

	// Exactly one backend is active per deployment; handlers never branch on
	// which one it is.
	var (
		store      assets.Store
		staticRoot string
	)
	switch cfg.Storage.Backend {
	case configuration.BackendRemote:
		remote, err := assets.NewRemoteStore(cfg.Storage.Remote)
		if err != nil {
			logrus.Fatalf("failed to initialize remote asset store: %v", err)
		}
		store = remote
		logrus.Infof("asset store: remote (%s/%s)", cfg.Storage.Remote.Endpoint, cfg.Storage.Remote.Bucket)
	default:
		local, err := assets.NewLocalStore(cfg.Storage.Local.Root, cfg.Storage.Local.BaseURL, cfg.Storage.Local.PublicPrefix)
		if err != nil {
			logrus.Fatalf("failed to initialize local asset store: %v", err)
		}
		store = local
		staticRoot = local.Root()
		logrus.Infof("asset store: local (%s)", local.Root())
	}

	events, err := services.ConnectEvents(cfg.NATSURL)
	if err != nil {
		logrus.Warnf("event publishing disabled: %v", err)
	}
	defer events.Close()

	auth := services.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMins)
	policy := assets.Policy{
		AllowedTypes: cfg.Storage.AllowedTypes,
		MaxBytes:     cfg.Storage.MaxUploadBytes,
	}
	orchestrator := assets.NewOrchestrator(store, policy, cfg.Storage.ScratchDir)

	r := gin.Default()
	api.RegisterRoutes(r, api.Handlers{
		Upload:  handlers.NewUploadHandler(orchestrator, store, events),
		Project: handlers.NewProjectHandler(db, store, orchestrator, events),
		Skill:   handlers.NewSkillHandler(db),
		Contact: handlers.NewContactHandler(db, events),
		Admin:   handlers.NewAdminHandler(auth),
	}, auth, cfg.Storage.Local.PublicPrefix, staticRoot)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logrus.Infof("server starting on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("forced shutdown: %v", err)
	}
}
