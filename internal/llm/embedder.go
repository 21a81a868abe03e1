package llm

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultEmbeddingCacheSize is the number of texts whose embeddings are kept in memory.
const DefaultEmbeddingCacheSize = 4096

// CachedEmbedder memoizes client embeddings in an LRU cache keyed by text.
// Essays are re-embedded once per sentence and once per question, so repeated
// benchmark runs hit the cache heavily.
type CachedEmbedder struct {
	client Client
	cache  *lru.Cache[string, []float32]
}

// NewCachedEmbedder wraps client with a cache of the given size.
// A non-positive size selects DefaultEmbeddingCacheSize.
func NewCachedEmbedder(client Client, size int) (*CachedEmbedder, error) {
	if size <= 0 {
		size = DefaultEmbeddingCacheSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachedEmbedder{client: client, cache: cache}, nil
}

// Embed returns the cached embedding of text, computing it on a miss.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}

	vec, err := e.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(text, vec)
	return vec, nil
}

// Len returns the number of cached embeddings.
func (e *CachedEmbedder) Len() int {
	return e.cache.Len()
}
