package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradewind/marketintel/internal/api"
	"github.com/tradewind/marketintel/internal/config"
	"github.com/tradewind/marketintel/internal/intel"
	"github.com/tradewind/marketintel/internal/server"
	"github.com/tradewind/marketintel/internal/telemetry"
	"github.com/tradewind/marketintel/internal/tradeflow"
	"github.com/tradewind/marketintel/internal/wits"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdownTracer, err := telemetry.InitTracer("marketintel", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	client := wits.NewClient(cfg.WITS.APIKey,
		wits.WithBaseURL(cfg.WITS.BaseURL),
		wits.WithTimeout(cfg.WITS.Timeout),
	)
	flows := tradeflow.New(client, tradeflow.Config{
		TTL:            cfg.Cache.TTL,
		DefaultPartner: cfg.TradeFlow.DefaultPartner,
	}, logger)
	dispatcher := intel.NewHandler(flows, client)

	srv := server.New(cfg.Server.Port, cfg.Server.RequestTimeout, logger)
	api.NewHandler(dispatcher).Register(srv.Router)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped", slog.Int("cached_entries", flows.Len()))
}
