package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/korthouse/mediadex/internal/config"
	"github.com/korthouse/mediadex/internal/corpus"
	logpkg "github.com/korthouse/mediadex/internal/logger"
	"github.com/korthouse/mediadex/internal/metrics"
	corpusrepo "github.com/korthouse/mediadex/internal/repository/corpus"
	chiTransport "github.com/korthouse/mediadex/internal/transport/chi"
	openaiEmb "github.com/korthouse/mediadex/internal/transport/openai"
	healthuc "github.com/korthouse/mediadex/internal/usecase/health"
	searchuc "github.com/korthouse/mediadex/internal/usecase/search"
	"github.com/korthouse/mediadex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mediadex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_source", cfg.Corpus.Source),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Load the corpus once; it is immutable for the process lifetime.
	ctx := context.Background()
	var store *corpus.Store
	var sourcePinger healthuc.SourcePinger

	switch cfg.Corpus.Source {
	case "file":
		store, err = corpusrepo.LoadFile(cfg.Corpus.Path)
		if err != nil {
			logger.Fatal("Failed to load corpus file", zap.Error(err))
		}
	case "redis":
		source, srcErr := corpusrepo.NewRedisSource(corpusrepo.RedisConfig{
			Addrs:     cfg.Corpus.Addrs,
			Password:  cfg.Corpus.Password,
			KeyPrefix: cfg.Corpus.KeyPrefix,
		})
		if srcErr != nil {
			logger.Fatal("Failed to create corpus source", zap.Error(srcErr))
		}
		defer source.Close()

		readiness := time.Duration(cfg.Corpus.ReadinessTimeout) * time.Second
		if err = source.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Corpus source not ready", zap.Error(err))
		}
		store, err = source.Load(ctx)
		if err != nil {
			logger.Fatal("Failed to load corpus from redis", zap.Error(err))
		}
		sourcePinger = source
	default:
		logger.Fatal("Unknown corpus source", zap.String("source", cfg.Corpus.Source))
	}

	logger.Info("Corpus loaded",
		zap.Int("records", store.Len()),
		zap.Int("skipped_untitled", store.Skipped()),
		zap.Int("dimensions", store.Dimensions()),
	)

	// Embedding provider; unconfigured means keyword-only deployment.
	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	})
	if !embedder.Configured() {
		logger.Warn("Embedding provider not configured; semantic and hybrid modes unavailable")
	}

	// Search core: two scorers over the shared snapshot, fused by RRF.
	searchSvc := searchuc.New(
		store,
		searchuc.NewLexicalScorer(store),
		searchuc.NewSemanticScorer(store, embedder),
	)

	var embeddingChecker healthuc.EmbeddingChecker
	if embedder.Configured() {
		embeddingChecker = embedder
	}
	healthSvc := healthuc.New(store.Len(), sourcePinger, embeddingChecker)

	server := chiTransport.NewServer(
		searchSvc, store, healthSvc,
		cfg.HTTP.DefaultPageSize, cfg.HTTP.MaxPageSize,
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer converts panics into JSON 500 responses.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits one canonical log line per request.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
