package implementation

import (
	"context"
	"errors"

	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/mapper"
	"ai-videosearch-be/internal/model"
	"ai-videosearch-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranscriptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptMapper
}

func NewTranscriptRepository(db *gorm.DB) contract.TranscriptRepository {
	return &TranscriptRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptMapper(),
	}
}

func (r *TranscriptRepositoryImpl) FindOne(ctx context.Context, videoId string) (*entity.Transcript, error) {
	var m model.Transcript
	if err := r.db.WithContext(ctx).Where("video_id = ?", videoId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TranscriptRepositoryImpl) FindByVideoIds(ctx context.Context, videoIds []string) ([]*entity.Transcript, error) {
	if len(videoIds) == 0 {
		return []*entity.Transcript{}, nil
	}
	var models []*model.Transcript
	if err := r.db.WithContext(ctx).Where("video_id IN ?", videoIds).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Transcript, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TranscriptRepositoryImpl) FindMissingEmbeddings(ctx context.Context, limit int) ([]*entity.Transcript, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []*model.Transcript
	err := r.db.WithContext(ctx).
		Where("embedding IS NULL").
		Where("text IS NOT NULL").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.Transcript, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TranscriptRepositoryImpl) UpdateEmbedding(ctx context.Context, videoId string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	return r.db.WithContext(ctx).
		Model(&model.Transcript{}).
		Where("video_id = ?", videoId).
		Update("embedding", vec).Error
}

// SearchSimilarWithScore is the ANN stage of the two-stage search.
// Cosine distance in pgvector is 1 - cosine_similarity, so we compute
// 1 - (embedding <=> query_vector) for the score. Exclusions are applied
// inside the query, before the LIMIT, so excluded videos never consume the
// candidate budget.
func (r *TranscriptRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, excludeIds []string) ([]*contract.ScoredTranscript, error) {
	if limit <= 0 {
		limit = 50
	}

	type result struct {
		model.Transcript
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("transcripts").
		Select("transcripts.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("embedding IS NOT NULL")

	if len(excludeIds) > 0 {
		query = query.Where("video_id NOT IN ?", excludeIds)
	}

	err := query.
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{queryVector}},
		}).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredTranscript, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredTranscript{
			Transcript: r.mapper.ToEntity(&res.Transcript),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *TranscriptRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transcript{}).Count(&count).Error
	return count, err
}
