package contract

import (
	"context"

	"ai-videosearch-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredCollection pairs a saved collection with its query similarity.
type ScoredCollection struct {
	Collection *entity.Collection
	Similarity float64
}

type CollectionRepository interface {
	Create(ctx context.Context, collection *entity.Collection) error
	FindOne(ctx context.Context, id uuid.UUID) (*entity.Collection, error)
	FindAll(ctx context.Context) ([]*entity.Collection, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SearchSimilarWithScore returns collections whose stored query embedding
	// clears the threshold, ordered by similarity descending, capped at limit.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*ScoredCollection, error)

	Count(ctx context.Context) (int64, error)
}
