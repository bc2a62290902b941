// Package embed provides the sentence-embedding service used by every
// matching step. The actual model runs in an external inference process;
// this package wraps it with batching, caching and a worker pool, and
// guarantees L2-normalised, order-preserving output.
package embed

import (
	"context"
	"errors"
)

// DefaultModel identifies the sentence transformer every stored taxonomy
// embedding was produced with. Changing it invalidates every precomputed
// vector, so the store checks dimensions at load.
const DefaultModel = "all-MiniLM-L6-v2"

// MaxSeqLen is the model's maximum input length in tokens; longer inputs
// are truncated by the inference service.
const MaxSeqLen = 512

var ErrEmbedderUnavailable = errors.New("embedding service unavailable")

// Embedder turns texts into dense vectors. Output order matches input
// order; output vectors are L2-normalised. Implementations are pure up to
// floating-point determinism, so callers may cache by content hash.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}
