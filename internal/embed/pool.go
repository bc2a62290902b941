package embed

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PooledEmbedder fans chunks of a large input out across parallel calls to
// the inner embedder. Output order still matches input order: each worker
// writes into its own slice window.
type PooledEmbedder struct {
	inner     Embedder
	workers   int
	chunkSize int
}

func NewPooledEmbedder(inner Embedder, workers, chunkSize int) *PooledEmbedder {
	if workers <= 0 {
		workers = 1
	}
	if chunkSize <= 0 {
		chunkSize = 256
	}
	return &PooledEmbedder{inner: inner, workers: workers, chunkSize: chunkSize}
}

func (p *PooledEmbedder) Model() string { return p.inner.Model() }

func (p *PooledEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) <= p.chunkSize || p.workers == 1 {
		return p.inner.Embed(ctx, texts)
	}

	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for start := 0; start < len(texts); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end
		g.Go(func() error {
			vecs, err := p.inner.Embed(gctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(out[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
