package mapper

import (
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

func (m *FeedbackMapper) ToEntity(f *model.RetrievalFeedback) *entity.RetrievalFeedback {
	if f == nil {
		return nil
	}

	var embedding []float32
	if f.QueryEmbedding != nil {
		embedding = f.QueryEmbedding.Slice()
	}

	return &entity.RetrievalFeedback{
		Id:             f.Id,
		Query:          f.Query,
		VideoId:        f.VideoId,
		Sentiment:      entity.Sentiment(f.Sentiment),
		QueryEmbedding: embedding,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func (m *FeedbackMapper) ToModel(f *entity.RetrievalFeedback) *model.RetrievalFeedback {
	if f == nil {
		return nil
	}

	m2 := &model.RetrievalFeedback{
		Id:        f.Id,
		Query:     f.Query,
		VideoId:   f.VideoId,
		Sentiment: string(f.Sentiment),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if f.QueryEmbedding != nil {
		vec := pgvector.NewVector(f.QueryEmbedding)
		m2.QueryEmbedding = &vec
	}
	return m2
}

func (m *FeedbackMapper) ToEntities(records []*model.RetrievalFeedback) []*entity.RetrievalFeedback {
	entities := make([]*entity.RetrievalFeedback, len(records))
	for i, f := range records {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
