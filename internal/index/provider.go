package index

import (
	"context"
	"sync"

	"github.com/renovalabs/insightdocs/internal/models"
)

// Retriever answers similarity queries against the document index.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error)
}

// Provider builds the index exactly once, on first use, and serves all later
// retrievals from the built index. A failed build is sticky: every call
// returns the original build error without retrying.
type Provider struct {
	builder *Builder
	dir     string

	once     sync.Once
	buildErr error
}

// NewProvider wraps a builder for the given documents directory.
func NewProvider(builder *Builder, dir string) *Provider {
	return &Provider{builder: builder, dir: dir}
}

// Ready builds the index if it has not been built yet and reports the result.
func (p *Provider) Ready(ctx context.Context) error {
	p.once.Do(func() {
		p.buildErr = p.builder.Build(ctx, p.dir)
	})
	return p.buildErr
}

// Retrieve builds the index on first call, then delegates to the builder.
func (p *Provider) Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	if err := p.Ready(ctx); err != nil {
		return nil, err
	}
	return p.builder.Retrieve(ctx, query, k)
}
