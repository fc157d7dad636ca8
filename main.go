package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "freightdesk/internal/config"
	router "freightdesk/internal/http"
	"freightdesk/internal/repositories"
	"freightdesk/internal/services"
	"freightdesk/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(env.LogLevel, env.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := env.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	r := router.NewRouter(env, logger, newServices(env, logger))

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      env.RegistryTimeout + 20*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", env.AppAddr),
			zap.String("loads_file", env.LoadsFile()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

func newServices(env intconfig.Env, logger *zap.Logger) router.Services {
	registry := repositories.NewFMCSARegistry(env.RegistryBaseURL, env.RegistryAPIKey, env.RegistryTimeout, logger.Named("fmcsa"))
	loads := services.LoadService{
		Source: repositories.CSVLoadRepository{Path: env.LoadsFile()},
		Log:    logger,
	}
	return router.Services{
		Carriers: services.CarrierService{
			Registry: registry,
			APIKey:   env.RegistryAPIKey,
			Log:      logger,
		},
		Loads: loads,
		Docs: services.DocsService{
			Loads: loads,
			Log:   logger,
		},
	}
}
