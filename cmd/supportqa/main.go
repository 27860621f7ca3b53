package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/supportqa/internal/config"
	"github.com/kailas-cloud/supportqa/internal/db"
	dbRedis "github.com/kailas-cloud/supportqa/internal/db/redis"
	"github.com/kailas-cloud/supportqa/internal/domain"
	"github.com/kailas-cloud/supportqa/internal/domain/adjacency"
	logpkg "github.com/kailas-cloud/supportqa/internal/logger"
	"github.com/kailas-cloud/supportqa/internal/metrics"
	"github.com/kailas-cloud/supportqa/internal/repository/embcache"
	knowledgerepo "github.com/kailas-cloud/supportqa/internal/repository/knowledge"
	chiTransport "github.com/kailas-cloud/supportqa/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/supportqa/internal/transport/openai"
	chatuc "github.com/kailas-cloud/supportqa/internal/usecase/chat"
	embeddinguc "github.com/kailas-cloud/supportqa/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/supportqa/internal/usecase/health"
	knowledgeuc "github.com/kailas-cloud/supportqa/internal/usecase/knowledge"
	relateduc "github.com/kailas-cloud/supportqa/internal/usecase/related"
	"github.com/kailas-cloud/supportqa/internal/version"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

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

	logger.Info("Starting supportqa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Redis 8 and Valkey share the rueidis store
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.Register()

	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	docEmbedder := buildEmbedder(baseEmbedder, &cfg.Embedding, cfg.Embedding.DocumentInstruction, store, logger)
	queryEmbedder := buildEmbedder(baseEmbedder, &cfg.Embedding, cfg.Embedding.QueryInstruction, store, logger)
	logger.Info("Embedders created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Logger:      logger,
	})

	adj, err := loadAdjacency(&cfg.Knowledge)
	if err != nil {
		logger.Fatal("Failed to load adjacency table", zap.Error(err))
	}

	knowRepo := knowledgerepo.New(store, cfg.Index.Collection, knowledgerepo.IndexConfig{
		VectorDim:   cfg.Embedding.Dimensions,
		Algorithm:   db.VectorAlgorithm(cfg.Index.Algorithm),
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := knowRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure knowledge index", zap.Error(err))
	}

	knowSvc := knowledgeuc.New(knowRepo, docEmbedder, queryEmbedder, cfg.Embedding.Dimensions)
	relatedSvc := relateduc.New(knowSvc, adj, cfg.Retrieval.RelatedCandidates, cfg.Retrieval.MaxRelated)
	chatSvc := chatuc.New(knowSvc, generator, relatedSvc, chatuc.Config{
		TopK:           cfg.Retrieval.TopK,
		ContextDocs:    cfg.Retrieval.ContextDocs,
		MaxQueryRunes:  cfg.Retrieval.MaxQueryRunes,
		LLMSuggestions: cfg.Retrieval.LLMSuggestions,
	})
	healthSvc := healthuc.New(store, baseEmbedder, generator)

	if cfg.Knowledge.CSVPath != "" {
		bootstrapKnowledge(ctx, knowSvc, cfg.Knowledge.CSVPath, logger)
	}

	server := chiTransport.NewServer(chatSvc, knowSvc, healthSvc, cfg.Knowledge.MaxUploadMB, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// The instruction is outermost so it takes part in the cache key.
func buildEmbedder(
	base *openaiTransport.Embedder,
	cfg *config.EmbeddingConfig,
	instruction string,
	store db.KVStore,
	logger *zap.Logger,
) domain.Embedder {
	ttl := time.Duration(cfg.CacheTTLHours) * time.Hour
	cached := embcache.New(base, store, ttl, metrics.EmbeddingCacheTotal, logger)

	var embedder domain.Embedder = embeddinguc.NewInstrumentedEmbedder(
		cached, cfg.Provider, cfg.Model, logger,
	).WithBatchSize(cfg.BatchSize)

	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

// loadAdjacency reads the operator override when configured, else the built-in table.
func loadAdjacency(cfg *config.KnowledgeConfig) (*adjacency.Table, error) {
	var opts []adjacency.Option
	if cfg.AdjacencyDefaultFallback {
		opts = append(opts, adjacency.WithDefaultFallback())
	}
	if cfg.AdjacencyPath == "" {
		return adjacency.Default(opts...), nil
	}
	t, err := adjacency.LoadFile(cfg.AdjacencyPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.AdjacencyPath, err)
	}
	return t, nil
}

// bootstrapKnowledge loads the configured CSV when the index is empty.
// A failure is logged and the server starts with whatever the index holds.
func bootstrapKnowledge(ctx context.Context, svc *knowledgeuc.Service, path string, logger *zap.Logger) {
	n, err := svc.LoadIfEmpty(ctx, path)
	if err != nil {
		logger.Error("Knowledge bootstrap failed", zap.String("path", path), zap.Error(err))
		return
	}
	if n == 0 {
		logger.Info("Knowledge index already populated, skipping bootstrap")
		return
	}
	logger.Info("Knowledge bootstrapped", zap.String("path", path), zap.Int("records", n))
}
