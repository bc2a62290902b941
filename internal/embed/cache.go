package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 14 * 24 * time.Hour

// CachedEmbedder caches vectors in Redis keyed by a content hash of the
// input text plus the model id. Embedding is deterministic for a given
// model, so a hit is always valid. When Redis is unavailable the cache
// degrades to a pass-through and warns once.
type CachedEmbedder struct {
	inner  Embedder
	client *redis.Client
	logger *log.Logger
	warned atomic.Bool
}

func NewCachedEmbedder(inner Embedder, client *redis.Client, logger *log.Logger) *CachedEmbedder {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedEmbedder{inner: inner, client: client, logger: logger}
}

func (c *CachedEmbedder) Model() string { return c.inner.Model() }

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if c.client == nil {
		return c.inner.Embed(ctx, texts)
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.key(t)
	}

	out := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))

	cached, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.warnOnce(err)
		return c.inner.Embed(ctx, texts)
	}
	for i, raw := range cached {
		str, ok := raw.(string)
		if !ok {
			missIdx = append(missIdx, i)
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(str), &vec); err != nil || len(vec) == 0 {
			missIdx = append(missIdx, i)
			continue
		}
		out[i] = vec
	}

	if len(missIdx) == 0 {
		return out, nil
	}

	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = texts[i]
	}
	vecs, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	pipe := c.client.Pipeline()
	for j, i := range missIdx {
		out[i] = vecs[j]
		if b, err := json.Marshal(vecs[j]); err == nil {
			pipe.Set(ctx, keys[i], b, cacheTTL)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.warnOnce(err)
	}
	return out, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(c.inner.Model() + "\x00" + text))
	return "emb:" + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) warnOnce(err error) {
	if c.warned.CompareAndSwap(false, true) {
		c.logger.Printf("embed=cache status=bypass err=%v", err)
	}
}
