// Package index builds and queries the semantic recipe index: an in-memory
// matrix of unit-norm chunk embeddings persisted as two flat files whose row
// order is the join between vectors and metadata.
package index

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"recipe-rag/internal/chunker"
	"recipe-rag/internal/config"
	"recipe-rag/internal/embedding"
	"recipe-rag/internal/models"
	"recipe-rag/internal/parser"
)

// Metadata is one persisted entry; entry i describes vector row i.
type Metadata struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
	Text   string `json:"text"`
}

// Indexer owns the in-memory index. The embedder is injected at construction
// so the model-resolution policy stays outside this package.
type Indexer struct {
	corpusDir   string
	indexDir    string
	chunkOpts   chunker.Options
	embedder    embeddings.Embedder
	modelName   string
	fallbackDim int

	vectors  [][]float32
	metadata []Metadata
	dim      int
	loaded   bool
}

func New(cfg *config.Config, embedder embeddings.Embedder) *Indexer {
	return &Indexer{
		corpusDir: cfg.CorpusDir,
		indexDir:  cfg.IndexDir,
		chunkOpts: chunker.Options{
			Size:     cfg.RAG.ChunkSize,
			Overlap:  cfg.RAG.ChunkOverlap,
			MinChars: cfg.RAG.MinChunkChars,
		},
		embedder:    embedder,
		modelName:   cfg.EmbedLLM.Model,
		fallbackDim: cfg.RAG.EmbeddingDim,
	}
}

// EnsureIndex loads a persisted index if one exists, otherwise builds it.
// Calling it again with an index already on disk never re-embeds anything.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	if ix.loaded {
		return nil
	}
	if err := ix.LoadIndex(); err != nil {
		return err
	}
	if ix.loaded {
		return nil
	}
	return ix.BuildIndex(ctx)
}

// BuildIndex walks the corpus, embeds all chunks in one batch and persists the
// result. An empty corpus persists an explicitly empty index so Search stays
// valid. Embedding failure is fatal; an index without vectors is useless.
func (ix *Indexer) BuildIndex(ctx context.Context) error {
	chunks, err := parser.LoadCorpus(ix.corpusDir, ix.chunkOpts)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if err := ix.buildFromChunks(ctx, chunks); err != nil {
		return err
	}
	log.Info().Int("chunks", len(ix.metadata)).Int("dim", ix.dim).Msg("Index built")
	return nil
}

func (ix *Indexer) buildFromChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		ix.vectors = nil
		ix.metadata = []Metadata{}
		ix.dim = ix.fallbackDim
		if err := ix.save(); err != nil {
			return err
		}
		ix.loaded = true
		return nil
	}

	texts := make([]string, len(chunks))
	metas := make([]Metadata, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		metas[i] = Metadata{Source: c.Source, Page: c.Page, Text: c.Text}
	}

	vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding corpus: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(texts))
	}

	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("inconsistent embedding dim at row %d: %d != %d", i, len(vec), dim)
		}
		vectors[i] = embedding.Normalize(vec)
	}

	ix.vectors = vectors
	ix.metadata = metas
	ix.dim = dim
	if err := ix.save(); err != nil {
		return err
	}
	ix.loaded = true
	return nil
}

// LoadIndex reads the persisted vector matrix and metadata list back into
// memory. Missing or corrupt files leave the indexer unloaded, which is not an
// error: EnsureIndex falls back to building.
func (ix *Indexer) LoadIndex() error {
	vectors, dim, metadata, ok := ix.load()
	if !ok {
		ix.loaded = false
		return nil
	}
	if len(vectors) != len(metadata) {
		log.Warn().Int("vectors", len(vectors)).Int("metadata", len(metadata)).Msg("Persisted index misaligned, treating as not loaded")
		ix.loaded = false
		return nil
	}
	ix.vectors = vectors
	ix.metadata = metadata
	ix.dim = dim
	ix.loaded = true
	return nil
}

// Loaded reports whether the index is resident in memory.
func (ix *Indexer) Loaded() bool { return ix.loaded }

// Count returns the number of indexed chunks.
func (ix *Indexer) Count() int { return len(ix.metadata) }

// Search embeds the query and scores it against every stored vector by dot
// product, which equals cosine similarity since all vectors are unit-norm.
// Results come back in descending score order, ties broken by insertion
// order. An empty index yields an empty slice, never an error.
func (ix *Indexer) Search(ctx context.Context, query string, topK int) ([]models.RetrievedChunk, error) {
	if !ix.loaded {
		if err := ix.EnsureIndex(ctx); err != nil {
			return nil, err
		}
	}
	if len(ix.vectors) == 0 {
		return []models.RetrievedChunk{}, nil
	}

	qvec, err := ix.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	qvec = embedding.Normalize(qvec)

	scores := make([]float32, len(ix.vectors))
	for i, vec := range ix.vectors {
		scores[i] = dot(vec, qvec)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	results := make([]models.RetrievedChunk, 0, topK)
	for _, i := range order[:topK] {
		meta := ix.metadata[i]
		results = append(results, models.RetrievedChunk{
			Text:   meta.Text,
			Score:  scores[i],
			Source: meta.Source,
			Page:   meta.Page,
		})
	}
	return results, nil
}

func dot(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
