// Package index builds the document index and serves retrieval queries.
package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/renovalabs/insightdocs/internal/chunker"
	"github.com/renovalabs/insightdocs/internal/embedding"
	"github.com/renovalabs/insightdocs/internal/ingest"
	"github.com/renovalabs/insightdocs/internal/models"
	"github.com/renovalabs/insightdocs/internal/vector"
)

// embedBatchSize caps how many chunk texts go into one embedding request.
const embedBatchSize = 128

// Builder loads documents from a directory, chunks and embeds them, and
// fills a vector index. The built index answers retrieval queries.
type Builder struct {
	loader   *ingest.Loader
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	index    vector.Index
	logger   *zap.Logger

	chunks map[string]models.Chunk
}

// NewBuilder creates a builder with the given dependencies.
// logger may be nil.
func NewBuilder(loader *ingest.Loader, ch *chunker.Chunker, embedder embedding.Embedder, idx vector.Index, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		loader:   loader,
		chunker:  ch,
		embedder: embedder,
		index:    idx,
		logger:   logger,
		chunks:   make(map[string]models.Chunk),
	}
}

// Build loads every document under dir, splits them into chunks, embeds the
// chunk texts and adds them to the vector index. Any failure aborts the build.
func (b *Builder) Build(ctx context.Context, dir string) error {
	fragments, err := b.loader.LoadDirectory(dir)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	chunks := b.chunker.Split(fragments)
	if len(chunks) == 0 {
		b.logger.Warn("no indexable content found", zap.String("dir", dir))
		return nil
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		ids := make([]string, len(batch))
		for i, ch := range batch {
			texts[i] = ch.Text
			ids[i] = ch.ID
		}

		embeddings, err := b.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks: %w", err)
		}
		if err := b.index.Add(ctx, ids, embeddings); err != nil {
			return fmt.Errorf("index chunks: %w", err)
		}
		for _, ch := range batch {
			b.chunks[ch.ID] = ch
		}
	}

	b.logger.Info("index built",
		zap.String("dir", dir),
		zap.Int("fragments", len(fragments)),
		zap.Int("chunks", len(chunks)))
	return nil
}

// Retrieve embeds the query and returns the top-k chunks by similarity,
// most similar first. Equal scores keep the original chunk order.
func (b *Builder) Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	queryVec, err := b.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := b.index.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	results := make([]models.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := b.chunks[hit.ID]
		if !ok {
			return nil, fmt.Errorf("index returned unknown chunk id %q", hit.ID)
		}
		results = append(results, models.ScoredChunk{Chunk: chunk, Score: hit.Score})
	}
	return results, nil
}

// Size returns the number of indexed chunks.
func (b *Builder) Size() int {
	return b.index.Size()
}
