package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/0X4227/Arina/internal/backend"
	"github.com/0X4227/Arina/internal/config"
	"github.com/0X4227/Arina/internal/firebase"
	"github.com/0X4227/Arina/internal/handlers"
	"github.com/0X4227/Arina/internal/logging"
	"github.com/0X4227/Arina/internal/metrics"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to configuration file")
		envPrefix  = flag.String("env-prefix", "ARINA", "Environment variable prefix")
	)
	flag.Parse()

	// Load main configuration
	configLoader := config.NewLoader(*configFile, *envPrefix)
	mainConfig, err := configLoader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration loading failed: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.NewLogger(mainConfig.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting Arina", "version", "0.1.0", "app_name", mainConfig.AppName)

	// Initialize metrics
	appMetrics, err := metrics.NewMetrics(mainConfig.Metrics)
	if err != nil {
		logger.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	// The firebase record comes from ARINA_FIREBASE_* variables or the firebase: section
	clientConfig := firebase.LoadClientConfig(config.NewEnvConfigLoader(*envPrefix, configLoader.Raw()))

	registry := backend.DefaultRegistry()
	bootstrapper := backend.NewBootstrapper(mainConfig.AppName, clientConfig, registry, firebase.NewFactory(logger), logger, appMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := bootstrapper.EnsureInitialized(ctx); err != nil {
		logger.Error("failed to initialize backend client", "error", err)
		os.Exit(1)
	}

	// Resolve the shared handles up front so the first request does not pay for them
	handles := bootstrapper.Handles()
	if _, err := handles.Database(ctx); err != nil {
		logger.Error("failed to create database handle", "error", err)
		os.Exit(1)
	}
	if _, err := handles.Storage(ctx); err != nil {
		logger.Error("failed to create storage handle", "error", err)
		os.Exit(1)
	}

	// Create and start HTTP server
	server := handlers.NewServer(mainConfig, registry, appMetrics.Handler(), logger)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
	case sig := <-interrupt:
		logger.Info("received interrupt signal", "signal", sig)
	}

	// Graceful shutdown
	logger.Info("starting graceful shutdown")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), mainConfig.Server.ShutdownTimeout)
	defer shutdownCancel()

	shutdownComplete := make(chan error, 1)

	go func() {
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
			shutdownComplete <- err
			return
		}

		if err := bootstrapper.Close(); err != nil {
			logger.Error("backend client shutdown error", "error", err)
			shutdownComplete <- err
			return
		}

		shutdownComplete <- nil
	}()

	select {
	case err := <-shutdownComplete:
		if err != nil {
			logger.Error("shutdown failed", "error", err)
		} else {
			logger.Info("shutdown complete")
		}
	case <-shutdownCtx.Done():
		logger.Error("shutdown timeout exceeded, forcing exit")
	}
}
