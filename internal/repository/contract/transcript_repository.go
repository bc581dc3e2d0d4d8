package contract

import (
	"context"

	"ai-videosearch-be/internal/entity"
)

// ScoredTranscript is an ANN candidate: a transcript plus its cosine
// similarity against the query vector.
type ScoredTranscript struct {
	Transcript *entity.Transcript
	Similarity float64
}

type TranscriptRepository interface {
	FindOne(ctx context.Context, videoId string) (*entity.Transcript, error)
	FindByVideoIds(ctx context.Context, videoIds []string) ([]*entity.Transcript, error)

	// FindMissingEmbeddings returns transcripts whose embedding column is
	// NULL, for the backfill worker.
	FindMissingEmbeddings(ctx context.Context, limit int) ([]*entity.Transcript, error)

	// UpdateEmbedding writes the embedding vector for one transcript.
	UpdateEmbedding(ctx context.Context, videoId string, embedding []float32) error

	// SearchSimilarWithScore runs the ANN stage: top-limit transcripts by
	// cosine similarity, with excludeIds filtered inside the query so the
	// candidate budget is not wasted on videos that will be discarded.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, excludeIds []string) ([]*ScoredTranscript, error)

	Count(ctx context.Context) (int64, error)
}
