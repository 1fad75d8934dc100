package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/openkart/searchd/internal/compose"
	"github.com/openkart/searchd/internal/config"
	dbRedis "github.com/openkart/searchd/internal/db/redis"
	"github.com/openkart/searchd/internal/domain"
	logpkg "github.com/openkart/searchd/internal/logger"
	"github.com/openkart/searchd/internal/metrics"
	"github.com/openkart/searchd/internal/ranking"
	catalogrepo "github.com/openkart/searchd/internal/repository/catalog"
	"github.com/openkart/searchd/internal/repository/embcache"
	promorepo "github.com/openkart/searchd/internal/repository/promo"
	suggestrepo "github.com/openkart/searchd/internal/repository/suggest"
	chiTransport "github.com/openkart/searchd/internal/transport/chi"
	openaiEmb "github.com/openkart/searchd/internal/transport/openai"
	healthuc "github.com/openkart/searchd/internal/usecase/health"
	searchuc "github.com/openkart/searchd/internal/usecase/search"
	suggestuc "github.com/openkart/searchd/internal/usecase/suggest"
	"github.com/openkart/searchd/internal/version"
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

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
	})
	if cfg.Embedding.Cache {
		embedder = embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache),
	)

	promoStore, err := promorepo.New(cfg.Promo.AdsPath, cfg.Promo.BannersPath)
	if err != nil {
		logger.Fatal("Failed to load promo artifacts", zap.Error(err))
	}

	// Create repositories
	catalogRepo := catalogrepo.New(store, catalogrepo.Config{
		IndexName: cfg.Catalog.IndexName,
		KeyPrefix: cfg.Catalog.KeyPrefix,
	})
	suggestRepo := suggestrepo.New(store, suggestrepo.Config{
		DictPrefix: cfg.Suggest.DictPrefix,
		IndexName:  cfg.Catalog.IndexName,
	})

	ranker, rankerMode := buildRanker(cfg.Ranking, logger)
	composer := compose.New(promoStore, cfg.Compose.AdSlots, cfg.Compose.Layouts)

	// Create use case services
	searchSvc := searchuc.New(catalogRepo, ranker, composer, embedder, searchuc.Config{
		Overfetch:       cfg.Catalog.Overfetch,
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
		RankerMode:      rankerMode,
	})
	suggestSvc := suggestuc.New(suggestRepo, embedder, suggestuc.Config{
		Mode:        cfg.Suggest.Mode,
		Limit:       cfg.Suggest.Limit,
		QueryCap:    cfg.Suggest.QueryCap,
		ProductCap:  cfg.Suggest.ProductCap,
		CategoryCap: cfg.Suggest.CategoryCap,
		BrandCap:    cfg.Suggest.BrandCap,
	})

	// Health service
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	// Create chi server
	server := chiTransport.NewServer(searchSvc, suggestSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

// buildRanker loads the learning-to-rank artifacts, falling back to the
// semantic reranker when they are missing or unreadable. The fallback is
// logged once here; per-request paths never re-check.
func buildRanker(cfg config.RankingConfig, logger *zap.Logger) (searchuc.Ranker, string) {
	ltr, err := ranking.NewLTR(cfg.ModelPath, cfg.VocabularyPath)
	if err != nil {
		if errors.Is(err, domain.ErrClassifierUnavailable) {
			logger.Warn("Ranking model unavailable, using semantic reranker",
				zap.String("model_path", cfg.ModelPath),
				zap.Error(err),
			)
			return ranking.NewSemantic(), "semantic"
		}
		logger.Fatal("Failed to load ranking model", zap.Error(err))
	}
	logger.Info("Ranking model loaded", zap.String("model_path", cfg.ModelPath))
	return ltr, "ltr"
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
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

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line -- one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
