// Package main wires together the port monitoring service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/api"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/clock"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/config"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/ditkapel"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/fetch"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/inaportnet"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/logging"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/ports"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	directory, err := ports.Load(cfg.Ports.File)
	if err != nil {
		logger.Warn("port directory unavailable, rankings disabled",
			zap.String("file", cfg.Ports.File),
			zap.Error(err),
		)
	}

	httpClient := &http.Client{Transport: fetch.NewTransport()}

	listFetch := fetch.New(httpClient, fetch.Config{
		Service:     "inaportnet",
		MaxAttempts: cfg.HTTP.MaxRetries,
		Backoff:     fetch.Exponential(cfg.ListBackoff()),
		Logger:      logger.Named("fetch"),
	})
	registryFetch := fetch.New(httpClient, fetch.Config{
		Service:     "ditkapel",
		MaxAttempts: cfg.HTTP.MaxRetries,
		Backoff:     fetch.Exponential(cfg.RegistryBackoff()),
		RetryStatus: true,
		Logger:      logger.Named("fetch"),
	})

	activity := inaportnet.NewClient(listFetch, inaportnet.Config{
		BaseURL:    cfg.Inaportnet.BaseURL,
		UserAgent:  cfg.HTTP.UserAgent,
		ChunkSize:  cfg.Inaportnet.ChunkSize,
		ChunkDelay: time.Duration(cfg.Inaportnet.ChunkDelayMs) * time.Millisecond,
		MonthDelay: time.Duration(cfg.Inaportnet.MonthDelayMs) * time.Millisecond,
	}, logger.Named("inaportnet"))

	vessels := ditkapel.NewClient(registryFetch, ditkapel.Config{
		BaseURL:     cfg.Ditkapel.BaseURL,
		UserAgent:   cfg.HTTP.UserAgent,
		DirectLimit: cfg.Ditkapel.DirectLimit,
		BatchLimit:  cfg.Ditkapel.BatchLimit,
		GroupSize:   cfg.Ditkapel.GroupSize,
		GroupDelay:  time.Duration(cfg.Ditkapel.GroupDelayMs) * time.Millisecond,
	}, logger.Named("ditkapel"))

	apiServer := api.NewServer(activity, vessels, directory, clock.System{}, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
