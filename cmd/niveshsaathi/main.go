package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/murlisonii/NiveshSaathi/internal/advisor"
	"github.com/murlisonii/NiveshSaathi/internal/config"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/feed"
	"github.com/murlisonii/NiveshSaathi/internal/handler"
	"github.com/murlisonii/NiveshSaathi/internal/service"
	"github.com/murlisonii/NiveshSaathi/internal/store"
	"github.com/murlisonii/NiveshSaathi/internal/stream"
	"github.com/shopspring/decimal"
)

// seedPortfolio is the starting position every new session gets, so
// the dashboard has something to show before the first trade.
func seedPortfolio() []domain.Holding {
	return []domain.Holding{
		{Symbol: "RELIANCE", Shares: 2, AvgPrice: decimal.RequireFromString("2800.00")},
		{Symbol: "HDFCBANK", Shares: 4, AvgPrice: decimal.RequireFromString("1600.00")},
	}
}

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load .env if present, then configuration.
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores.
	quotes := store.NewQuoteStore(domain.DefaultUniverse())
	sessions := store.NewSessionStore(cfg.InitialCash, seedPortfolio())

	// Quote stream hub.
	hub := stream.NewHub(logger)

	// Generation-service client. The server runs without it; AI-backed
	// endpoints then answer with generation_failed.
	var gen service.Generator
	if adv, err := advisor.New(ctx, cfg.GenModel, cfg.TTSModel, cfg.TTSVoice); err != nil {
		logger.Warn("advisor disabled", slog.String("error", err.Error()))
	} else {
		gen = adv
	}

	// Services.
	portfolioSvc := service.NewPortfolioService(sessions, quotes)
	marketSvc := service.NewMarketService(quotes)
	riskSvc := service.NewRiskService(sessions)
	assistSvc := service.NewAssistService(gen, sessions)

	// Router.
	router := handler.NewRouter(portfolioSvc, marketSvc, riskSvc, assistSvc, hub, logger)

	// Quote feed: every tick moves the universe and fans out to all
	// session ledgers and stream subscribers.
	simulator := feed.NewSimulator(cfg.TickInterval, cfg.DriftBound, quotes, sessions, hub)
	simulator.Start(ctx)

	// Reclaim sessions nobody has touched within the TTL.
	sessions.StartSweeper(ctx, cfg.SweepInterval, cfg.SessionTTL, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops the
	// feed goroutine).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
