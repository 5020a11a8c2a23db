package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aura-assist/aura-backend/internal/config"
	"github.com/aura-assist/aura-backend/internal/intent"
	"github.com/aura-assist/aura-backend/internal/pipeline"
	"github.com/aura-assist/aura-backend/internal/planner"
	"github.com/aura-assist/aura-backend/internal/providers"
	"github.com/aura-assist/aura-backend/internal/ratelimit"
	"github.com/aura-assist/aura-backend/internal/server"
	"github.com/aura-assist/aura-backend/internal/session"
	"github.com/aura-assist/aura-backend/internal/telemetry"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	loader := config.NewLoader(*configDir, logger)
	if err := loader.Load(); err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	cfg := loader.Config()

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Telemetry.LogLevel),
	}))
	slog.SetDefault(logger)

	if cfg.Providers.APIKey == "" {
		logger.Warn("no provider API key configured (all model calls will fail)")
	}

	// Connect to Redis when the session backend or the rate limiter needs it
	var rdb *redis.Client
	if cfg.Session.Backend == "redis" || cfg.RateLimit.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Session.Redis.Address,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
			PoolSize: cfg.Session.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (rate limiting fails open)", "error", err)
		} else {
			logger.Info("redis connected")
		}
	}

	// Session checkpoint store
	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		store = session.NewRedisStore(rdb, cfg.Session.TTL)
		logger.Info("session store", "backend", "redis")
	case "postgres":
		dbPool, err := pgxpool.New(context.Background(), cfg.Session.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		if err := dbPool.Ping(context.Background()); err != nil {
			logger.Warn("database not reachable (checkpoints will fail)", "error", err)
		}
		store = session.NewPostgresStore(dbPool)
		logger.Info("session store", "backend", "postgres")
	default:
		store = session.NewMemoryStore()
		logger.Info("session store", "backend", "memory")
	}

	// Model providers, all over the one OpenAI-compatible client
	client := providers.NewClient(cfg.Providers)
	transcriber := providers.NewGroqTranscriber(client, cfg.Providers)
	completer := providers.NewGroqCompleter(client, cfg.Providers)
	locator := providers.NewGroqLocator(client, cfg.Providers)
	tts := providers.NewGroqSynthesizer(client, cfg.Providers.TTS.Model, cfg.Providers.TTS.Voice, cfg.Providers.CircuitBreaker)
	var ttsFallback providers.Synthesizer
	if cfg.Providers.TTS.FallbackModel != "" {
		ttsFallback = providers.NewGroqSynthesizer(client, cfg.Providers.TTS.FallbackModel, cfg.Providers.TTS.FallbackVoice, cfg.Providers.CircuitBreaker)
	}

	metrics := telemetry.NewMetrics()
	monitor := telemetry.NewMonitor(cfg.Telemetry.MonitorHistory)

	classifier := intent.NewClassifier(completer, monitor, metrics, intent.Options{
		CacheSize:     cfg.Pipeline.CacheSize,
		UITreeExcerpt: cfg.Pipeline.UITreeExcerpt,
		DefaultModel:  cfg.Providers.Chat.Model,
	})

	orchestrator := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		Transcribe: pipeline.NewTranscribeStage(transcriber, cfg.Providers.STT.Timeout),
		Classify:   pipeline.NewClassifyStage(classifier),
		CheckUI:    pipeline.NewCheckUIStage(),
		Locate:     pipeline.NewLocateStage(locator, cfg.Providers.Vision.Timeout),
		Plan:       pipeline.NewPlanStage(planner.New()),
		Synthesize: pipeline.NewSynthesizeStage(tts, ttsFallback,
			cfg.Providers.TTS.Voice, cfg.Providers.TTS.FallbackVoice, cfg.Providers.TTS.Timeout),
		Store:          store,
		Monitor:        monitor,
		Metrics:        metrics,
		RequestTimeout: cfg.Pipeline.RequestTimeout,
	})

	handler := server.NewHandler(orchestrator, store, monitor, func() config.ServerConfig {
		return loader.Config().Server
	})

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(ratelimit.Middleware(ratelimit.NewLimiter(rdb), cfg.RateLimit))
	r.Mount("/", handler.Routes())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Metrics on a separate listener so it stays off the public surface
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		logger.Info("metrics server starting", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	metricsSrv.Shutdown(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const requestIDKey contextKey = "request_id"

func generateRequestID() string {
	now := time.Now()
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", now.UnixMilli(), hex.EncodeToString(b))
}
