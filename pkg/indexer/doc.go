// Package indexer provides the write side of hybrid retrieval.
//
// Three components cooperate:
//
//   - [BM25Indexer]: maintains the lexical BM25 index
//   - [VectorIndexer]: embeds documents and maintains the vector store
//   - [HybridIndexer]: fans writes out to both
//
// All indexers operate on [store.Document] and are safe for concurrent
// use. Re-indexing an existing document ID replaces its previous
// content in every index.
//
// # Usage
//
//	bm25, _ := indexer.NewBM25Indexer(indexer.WithIndex(idx))
//	vector, _ := indexer.NewVectorIndexer(
//	    indexer.WithEmbedder(embedder),
//	    indexer.WithVectorStore(vectors),
//	)
//	hybrid, _ := indexer.NewHybridIndexer(indexer.WithBM25(bm25), indexer.WithVector(vector))
//
//	err := hybrid.Index(ctx, docs)
package indexer
