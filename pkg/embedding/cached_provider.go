package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"ai-videosearch-be/internal/pkg/apperrors"

	"github.com/redis/go-redis/v9"
)

// CachedProvider wraps an EmbeddingProvider with two concerns:
//
//  1. Single warmup per process. The first Generate triggers one probe call
//     (which makes the backend load its model); concurrent first calls block
//     on the same sync.Once, so the model is never loaded twice. A failed
//     warmup is sticky and surfaces as a ModelUnavailable hard failure.
//  2. A redis cache of text -> vector. Embeddings are deterministic for a
//     given model version, so caching is safe; redis outages fall through to
//     the backend.
type CachedProvider struct {
	inner   EmbeddingProvider
	model   string
	rdb     *redis.Client
	ttl     time.Duration
	warmup  sync.Once
	initErr error
}

func NewCachedProvider(inner EmbeddingProvider, model string, rdb *redis.Client) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		model: model,
		rdb:   rdb,
		ttl:   24 * time.Hour,
	}
}

func (p *CachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	p.warmup.Do(func() {
		if _, err := p.inner.Generate("warmup", TaskRetrievalQuery); err != nil {
			p.initErr = apperrors.ModelUnavailable(p.model, err)
		}
	})
	if p.initErr != nil {
		return nil, p.initErr
	}

	key := p.cacheKey(text, taskType)
	if cached := p.fromCache(key); cached != nil {
		return cached, nil
	}

	res, err := p.inner.Generate(text, taskType)
	if err != nil {
		return nil, apperrors.ModelUnavailable(p.model, err)
	}

	p.toCache(key, res)
	return res, nil
}

func (p *CachedProvider) cacheKey(text, taskType string) string {
	sum := sha256.Sum256([]byte(p.model + "\x00" + taskType + "\x00" + text))
	return "embed:" + hex.EncodeToString(sum[:])
}

func (p *CachedProvider) fromCache(key string) *EmbeddingResponse {
	if p.rdb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	raw, err := p.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var values []float32
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: values},
	}
}

func (p *CachedProvider) toCache(key string, res *EmbeddingResponse) {
	if p.rdb == nil {
		return
	}
	raw, err := json.Marshal(res.Embedding.Values)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	p.rdb.Set(ctx, key, raw, p.ttl)
}
