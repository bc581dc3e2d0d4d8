package implementation

import (
	"context"
	"errors"
	"time"

	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/mapper"
	"ai-videosearch-be/internal/model"
	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

// Upsert runs a single INSERT ... ON CONFLICT (query, video_id) DO UPDATE.
// A separate check-then-insert would race under concurrent duplicate
// submissions on the same pair; the conditional upsert closes that window.
func (r *FeedbackRepositoryImpl) Upsert(ctx context.Context, feedback *entity.RetrievalFeedback) error {
	if feedback.Id == uuid.Nil {
		feedback.Id = uuid.New()
	}
	m := r.mapper.ToModel(feedback)

	doUpsert := func() error {
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "query"}, {Name: "video_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"sentiment":       m.Sentiment,
				"query_embedding": m.QueryEmbedding,
				"updated_at":      time.Now(),
			}),
		}).Create(m).Error
	}

	err := doUpsert()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Should be unreachable with the conflict clause in place; retry
		// once before surfacing.
		if err = doUpsert(); errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrFeedbackConflict
		}
	}
	if err != nil {
		return err
	}

	*feedback = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeedbackRepositoryImpl) Delete(ctx context.Context, query string, videoId string) error {
	// Idempotent: deleting an absent record is a no-op.
	return r.db.WithContext(ctx).
		Where("query = ? AND video_id = ?", query, videoId).
		Delete(&model.RetrievalFeedback{}).Error
}

func (r *FeedbackRepositoryImpl) FindByQueryAndVideos(ctx context.Context, query string, videoIds []string) ([]*entity.RetrievalFeedback, error) {
	if len(videoIds) == 0 {
		return []*entity.RetrievalFeedback{}, nil
	}
	var models []*model.RetrievalFeedback
	err := r.db.WithContext(ctx).
		Where("query = ?", query).
		Where("video_id IN ?", videoIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FeedbackRepositoryImpl) FindByQuery(ctx context.Context, query string) ([]*entity.RetrievalFeedback, error) {
	var models []*model.RetrievalFeedback
	err := specification.ByQuery{Query: query}.
		Apply(r.db.WithContext(ctx)).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchSimilarQueries collapses the feedback table to distinct query texts
// and keeps those whose embedding clears the threshold.
func (r *FeedbackRepositoryImpl) SearchSimilarQueries(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*contract.SimilarQuery, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		Query      string
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("retrieval_feedback").
		Select("query, MAX(1 - (query_embedding <=> ?)) as similarity", queryVector).
		Where("query_embedding IS NOT NULL").
		Group("query").
		Having("MAX(1 - (query_embedding <=> ?)) > ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	similar := make([]*contract.SimilarQuery, len(results))
	for i, res := range results {
		similar[i] = &contract.SimilarQuery{
			Query:      res.Query,
			Similarity: res.Similarity,
		}
	}
	return similar, nil
}

func (r *FeedbackRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RetrievalFeedback{}).Count(&count).Error
	return count, err
}
