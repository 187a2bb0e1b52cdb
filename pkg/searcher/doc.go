// Package searcher provides the query side of hybrid retrieval.
//
// Three components cooperate:
//
//   - [BM25Searcher]: lexical search over the in-memory BM25 index
//   - [DenseSearcher]: semantic search via an embedder and vector store
//   - [FusionSearcher]: the orchestrator that runs both paths
//     concurrently and merges their rankings with RRF
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────┐
//	│                     FusionSearcher                       │
//	│  ┌────────────────┐             ┌────────────────────┐  │
//	│  │  BM25Searcher  │─────────────│   DenseSearcher    │  │
//	│  │                │  RRF fusion │                    │  │
//	│  │ store.BM25Index│             │  embed.Embedder    │  │
//	│  │                │             │  store.VectorStore │  │
//	│  └────────────────┘             └────────────────────┘  │
//	└──────────────────────────────────────────────────────────┘
//
// # Usage
//
//	lexical, _ := searcher.NewBM25Searcher(searcher.WithBM25Index(index))
//	dense, _ := searcher.NewDenseSearcher(
//	    searcher.WithDenseEmbedder(embedder),
//	    searcher.WithDenseVectorStore(vectors),
//	)
//
//	hybrid, _ := searcher.NewFusionSearcher(
//	    searcher.WithLexical(lexical),
//	    searcher.WithDense(dense),
//	    searcher.WithCatalog(catalog),
//	)
//
//	resp, err := hybrid.Search(ctx, "how do I renew my passport", searcher.DefaultOptions())
//
// Omitting one path yields a single-source searcher; at least one must
// be configured.
//
// # Thread Safety
//
// All searchers are safe for concurrent use.
package searcher
