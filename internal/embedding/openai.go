package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/renovalabs/insightdocs/pkg/utils"
)

// OpenAIEmbedder produces embeddings through the OpenAI embeddings API.
// Vectors are L2-normalized so inner product equals cosine similarity.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	cache      *Cache
	logger     *zap.Logger
}

// NewOpenAIEmbedder creates an embedder for the given model. Results are
// cached by text so repeated queries do not hit the API again.
func NewOpenAIEmbedder(client *openai.Client, model string, cacheSize int, logger *zap.Logger) *OpenAIEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	dims := 1536
	if model == "text-embedding-3-large" {
		dims = 3072
	}
	return &OpenAIEmbedder{
		client:     client,
		model:      model,
		dimensions: dims,
		cache:      NewCache(cacheSize),
		logger:     logger,
	}
}

// Embed returns the embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data returned")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	copy(vector, resp.Data[0].Embedding)
	utils.NormalizeL2(vector)

	e.cache.Set(text, vector)
	return vector, nil
}

// EmbedBatch embeds multiple texts, batching uncached ones into a single
// API request. The returned slice is index-aligned with texts.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var pending []string
	var pendingIdx []int
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			vectors[i] = cached
			continue
		}
		pending = append(pending, text)
		pendingIdx = append(pendingIdx, i)
	}
	if len(pending) == 0 {
		return vectors, nil
	}

	e.logger.Debug("embedding batch",
		zap.Int("total", len(texts)),
		zap.Int("uncached", len(pending)))

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: pending,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(pending) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(pending), len(resp.Data))
	}

	for j, data := range resp.Data {
		vector := make([]float32, len(data.Embedding))
		copy(vector, data.Embedding)
		utils.NormalizeL2(vector)
		e.cache.Set(pending[j], vector)
		vectors[pendingIdx[j]] = vector
	}
	return vectors, nil
}

// Dimensions returns the embedding dimension for the configured model.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for OpenAIEmbedder.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
