package implementation

import (
	"context"
	"errors"

	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/mapper"
	"ai-videosearch-be/internal/model"
	"ai-videosearch-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CollectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CollectionMapper
}

func NewCollectionRepository(db *gorm.DB) contract.CollectionRepository {
	return &CollectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewCollectionMapper(),
	}
}

func (r *CollectionRepositoryImpl) Create(ctx context.Context, collection *entity.Collection) error {
	m := r.mapper.ToModel(collection)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*collection = *r.mapper.ToEntity(m)
	return nil
}

func (r *CollectionRepositoryImpl) FindOne(ctx context.Context, id uuid.UUID) (*entity.Collection, error) {
	var m model.Collection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CollectionRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Collection, error) {
	var models []*model.Collection
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CollectionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Collection{}).Error
}

func (r *CollectionRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*contract.ScoredCollection, error) {
	if limit <= 0 {
		limit = 10
	}

	type result struct {
		model.Collection
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("collections").
		Select("collections.*, 1 - (query_embedding <=> ?) as similarity", queryVector).
		Where("query_embedding IS NOT NULL").
		Where("1 - (query_embedding <=> ?) > ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredCollection, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredCollection{
			Collection: r.mapper.ToEntity(&res.Collection),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *CollectionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Collection{}).Count(&count).Error
	return count, err
}
