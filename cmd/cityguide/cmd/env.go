package cmd

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tutar/city-guide-sub000/internal/config"
	"github.com/tutar/city-guide-sub000/internal/embed"
	"github.com/tutar/city-guide-sub000/internal/ingest"
	"github.com/tutar/city-guide-sub000/internal/logging"
	"github.com/tutar/city-guide-sub000/internal/search"
	"github.com/tutar/city-guide-sub000/internal/store"
	"github.com/tutar/city-guide-sub000/pkg/indexer"
	"github.com/tutar/city-guide-sub000/pkg/searcher"
)

const catalogFileName = "catalog.db"

// setup loads configuration and initializes logging. The returned
// cleanup flushes and closes the log writer.
func setup() (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, nil, nil, err
	}

	logCfg := logging.Config{
		Level:     cfg.Logging.Level,
		FilePath:  cfg.Logging.FilePath,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	}
	if debugMode {
		logCfg.Level = "debug"
	}
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, cleanup, nil
}

// environment wires the full retrieval stack: catalog, both indexes,
// embedder, loader, and the fusion searcher.
type environment struct {
	cfg      *config.Config
	catalog  store.Catalog
	hybrid   *indexer.HybridIndexer
	loader   *ingest.Loader
	cache    *search.ResultCache
	searcher *searcher.FusionSearcher
}

// openEnvironment builds the retrieval stack from configuration.
// The catalog on disk is the system of record; in-memory indexes are
// rebuilt from it via environment.rebuild.
func openEnvironment(cfg *config.Config, logger *slog.Logger) (*environment, error) {
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", cfg.Paths.DataDir, err)
	}

	catalog, err := store.NewSQLiteCatalog(filepath.Join(cfg.Paths.DataDir, catalogFileName))
	if err != nil {
		return nil, err
	}

	embedder, err := embed.NewEmbedder(embed.FactoryConfig{
		Provider: embed.ParseProvider(cfg.Embeddings.Provider),
		OpenAI: embed.OpenAIConfig{
			APIKey:     cfg.APIKey(),
			BaseURL:    cfg.Embeddings.BaseURL,
			Model:      cfg.Embeddings.Model,
			Dimensions: cfg.Embeddings.Dimensions,
		},
		CacheSize: cfg.Embeddings.CacheSize,
	})
	if err != nil {
		_ = catalog.Close()
		return nil, err
	}

	bm25 := store.NewMemoryBM25Index(store.BM25Config{K1: cfg.Search.K1, B: cfg.Search.B})
	vectors, err := store.NewHNSWStore(store.VectorStoreConfig{Dimensions: embedder.Dimensions()})
	if err != nil {
		_ = embedder.Close()
		_ = catalog.Close()
		return nil, err
	}

	bmIdx, err := indexer.NewBM25Indexer(indexer.WithIndex(bm25))
	if err != nil {
		_ = embedder.Close()
		_ = catalog.Close()
		return nil, err
	}
	vecIdx, err := indexer.NewVectorIndexer(
		indexer.WithEmbedder(embedder),
		indexer.WithVectorStore(vectors),
		indexer.WithBatchSize(cfg.Embeddings.BatchSize),
	)
	if err != nil {
		_ = embedder.Close()
		_ = catalog.Close()
		return nil, err
	}
	hybrid, err := indexer.NewHybridIndexer(indexer.WithBM25(bmIdx), indexer.WithVector(vecIdx))
	if err != nil {
		_ = embedder.Close()
		_ = catalog.Close()
		return nil, err
	}

	cache := search.NewResultCache(cfg.Search.CacheSize, cfg.Search.CacheTTLDuration())

	loader, err := ingest.NewLoader(catalog, hybrid,
		ingest.WithResultCache(cache),
		ingest.WithLogger(logger),
	)
	if err != nil {
		_ = hybrid.Close()
		_ = catalog.Close()
		return nil, err
	}

	lexical, err := searcher.NewBM25Searcher(searcher.WithBM25Index(bm25))
	if err != nil {
		_ = hybrid.Close()
		_ = catalog.Close()
		return nil, err
	}
	dense, err := searcher.NewDenseSearcher(
		searcher.WithDenseEmbedder(embedder),
		searcher.WithDenseVectorStore(vectors),
		searcher.WithDenseTimeout(cfg.Search.DenseTimeoutDuration()),
	)
	if err != nil {
		_ = hybrid.Close()
		_ = catalog.Close()
		return nil, err
	}

	fusion, err := searcher.NewFusionSearcher(
		searcher.WithLexical(lexical),
		searcher.WithDense(dense),
		searcher.WithFusion(search.NewRRFFusion(cfg.Search.RRFConstant)),
		searcher.WithWeights(search.Weights{
			Lexical: cfg.Search.LexicalWeight,
			Dense:   cfg.Search.DenseWeight,
		}),
		searcher.WithResultCache(cache),
		searcher.WithCatalog(catalog),
		searcher.WithSearchLogger(logger),
		searcher.WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit),
	)
	if err != nil {
		_ = hybrid.Close()
		_ = catalog.Close()
		return nil, err
	}

	return &environment{
		cfg:      cfg,
		catalog:  catalog,
		hybrid:   hybrid,
		loader:   loader,
		cache:    cache,
		searcher: fusion,
	}, nil
}

// Close releases the indexes, the embedder, and the catalog.
func (e *environment) Close() error {
	return stderrors.Join(e.hybrid.Close(), e.catalog.Close())
}
