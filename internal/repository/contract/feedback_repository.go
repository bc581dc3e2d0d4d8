package contract

import (
	"context"

	"ai-videosearch-be/internal/entity"
)

// SimilarQuery is a distinct historical query whose embedding cleared the
// similarity threshold.
type SimilarQuery struct {
	Query      string
	Similarity float64
}

type FeedbackRepository interface {
	// Upsert atomically inserts or updates the record for (query, video_id)
	// in a single statement. The uniqueness invariant must hold under
	// concurrent duplicate submissions.
	Upsert(ctx context.Context, feedback *entity.RetrievalFeedback) error

	// Delete removes the record if present; no-op otherwise.
	Delete(ctx context.Context, query string, videoId string) error

	// FindByQueryAndVideos is the bulk read behind get_feedback.
	FindByQueryAndVideos(ctx context.Context, query string, videoIds []string) ([]*entity.RetrievalFeedback, error)

	// FindByQuery returns every live record for an exact query string.
	FindByQuery(ctx context.Context, query string) ([]*entity.RetrievalFeedback, error)

	// SearchSimilarQueries returns distinct historical queries above the
	// cosine similarity threshold, ordered by similarity descending.
	SearchSimilarQueries(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*SimilarQuery, error)

	Count(ctx context.Context) (int64, error)
}
