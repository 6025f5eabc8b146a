package answer

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/renovalabs/insightdocs/internal/index"
	"github.com/renovalabs/insightdocs/internal/models"
	"github.com/renovalabs/insightdocs/pkg/utils"
)

// ChatClient is the completion surface of the OpenAI client used by the pipeline.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Pipeline answers a question by retrieving the most similar chunks and
// asking the chat model to respond using only those chunks.
type Pipeline struct {
	retriever index.Retriever
	chat      ChatClient
	model     string
	topK      int
	logger    *zap.Logger
}

// NewPipeline creates an answer pipeline. logger may be nil.
func NewPipeline(retriever index.Retriever, chat ChatClient, model string, topK int, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topK <= 0 {
		topK = 4
	}
	return &Pipeline{
		retriever: retriever,
		chat:      chat,
		model:     model,
		topK:      topK,
		logger:    logger,
	}
}

// Answer retrieves context for the question and requests a completion at
// temperature zero. Retrieval or completion failures are returned as errors,
// never folded into an answer text.
func (p *Pipeline) Answer(ctx context.Context, question string) (*models.Answer, error) {
	scored, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	prompt := buildPrompt(question, scored)
	p.logger.Debug("requesting completion",
		zap.String("question", utils.Truncate(question, 80)),
		zap.Int("context_chunks", len(scored)))

	// Temperature 0 would be dropped by omitempty and the API would fall
	// back to its default; the smallest positive float stands in for zero.
	resp, err := p.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	sources := make([]models.Chunk, len(scored))
	for i, s := range scored {
		sources[i] = s.Chunk
	}
	return &models.Answer{
		Text:    resp.Choices[0].Message.Content,
		Sources: sources,
	}, nil
}
