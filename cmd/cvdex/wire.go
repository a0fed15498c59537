package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cvdex/internal/config"
	dbRedis "github.com/kailas-cloud/cvdex/internal/db/redis"
	"github.com/kailas-cloud/cvdex/internal/domain"
	"github.com/kailas-cloud/cvdex/internal/loader"
	logpkg "github.com/kailas-cloud/cvdex/internal/logger"
	"github.com/kailas-cloud/cvdex/internal/metrics"
	chunkrepo "github.com/kailas-cloud/cvdex/internal/repository/chunk"
	"github.com/kailas-cloud/cvdex/internal/repository/embcache"
	"github.com/kailas-cloud/cvdex/internal/session"
	"github.com/kailas-cloud/cvdex/internal/splitter"
	openaiTransport "github.com/kailas-cloud/cvdex/internal/transport/openai"
	analyzeruc "github.com/kailas-cloud/cvdex/internal/usecase/analyzer"
	batchuc "github.com/kailas-cloud/cvdex/internal/usecase/batch"
	embeddinguc "github.com/kailas-cloud/cvdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/cvdex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/cvdex/internal/usecase/index"
)

// app is the composition root shared by every subcommand.
type app struct {
	env     string
	cfg     config.Config
	logger  *zap.Logger
	store   *dbRedis.Store
	index   *indexuc.Service
	batch   *batchuc.Service
	health  *healthuc.Service
	session *session.Session
}

func newApp(ctx context.Context, logLevel string) (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel == "" {
		logLevel = cfg.Logging.Level
	}
	logger, err := logpkg.NewLogger(env, logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w: %w", domain.ErrStoreUnavailable, err)
	}
	logger.Debug("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))

	// Register metrics explicitly (no init())
	metrics.RegisterAll()

	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	docEmbedder := buildEmbedder(cfg, baseEmbedder, store, logger)
	var queryEmbedder domain.Embedder = docEmbedder
	if cfg.Embedding.QueryInstruction != "" {
		queryEmbedder = domain.NewQueryEmbedder(docEmbedder, cfg.Embedding.QueryInstruction)
	}

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Provider:    cfg.LLM.Provider,
		Logger:      logger,
	})

	chunks := chunkrepo.New(store, chunkrepo.Config{
		KeyPrefix: cfg.Database.KeyPrefix,
		VectorDim: cfg.Embedding.Dimensions,
		HNSW: chunkrepo.HNSWConfig{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		},
	})

	split, err := splitter.New(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("splitter: %w", err)
	}
	source := loader.New(cfg.Index.SourceDir, logger, loader.WithMaxFiles(cfg.Index.MaxFiles))

	indexSvc := indexuc.New(chunks, source, split, docEmbedder, logger).
		WithBatchSize(cfg.Embedding.BatchSize)
	analyzer := analyzeruc.New(chunks, queryEmbedder, completer, analyzeruc.Options{
		TopK:             cfg.Analysis.TopK,
		SimilarityCutoff: cfg.Analysis.SimilarityCutoff,
		RequestTimeout:   cfg.LLM.RequestTimeout(),
	}, logger)
	batchSvc := batchuc.New(analyzer, chunks, logger).
		WithConcurrency(cfg.Analysis.Concurrency)

	return &app{
		env:     env,
		cfg:     cfg,
		logger:  logger,
		store:   store,
		index:   indexSvc,
		batch:   batchSvc,
		health:  healthuc.New(store, baseEmbedder, completer),
		session: session.New(),
	}, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Retrying -> Cached.
// Cache hits never reach the retry loop.
func buildEmbedder(cfg config.Config, base domain.Embedder, store *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	retrying := embeddinguc.NewRetrying(base, logger).WithAttempts(cfg.Embedding.RetryAttempts)
	return embcache.New(retrying, store, embcache.Options{
		KeyPrefix: cfg.Database.KeyPrefix,
		TTL:       cfg.Embedding.CacheTTL(),
		Model:     cfg.Embedding.Model,
	}, metrics.EmbeddingCacheTotal, logger)
}

// ensureIndex loads the persisted index or builds it from the source directory.
func (a *app) ensureIndex(ctx context.Context, rebuild bool) (indexuc.Outcome, error) {
	if rebuild {
		return a.index.Rebuild(ctx)
	}
	return a.index.Ensure(ctx)
}

func (a *app) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}
