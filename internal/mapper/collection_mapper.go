package mapper

import (
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type CollectionMapper struct{}

func NewCollectionMapper() *CollectionMapper {
	return &CollectionMapper{}
}

func (m *CollectionMapper) ToEntity(c *model.Collection) *entity.Collection {
	if c == nil {
		return nil
	}

	var embedding []float32
	if c.QueryEmbedding != nil {
		embedding = c.QueryEmbedding.Slice()
	}

	return &entity.Collection{
		Id:             c.Id,
		Query:          c.Query,
		QueryEmbedding: embedding,
		AiAnswer:       c.AiAnswer,
		VideoIds:       []string(c.VideoIds),
		Metadata:       map[string]interface{}(c.MetadataJson),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *CollectionMapper) ToModel(c *entity.Collection) *model.Collection {
	if c == nil {
		return nil
	}

	m2 := &model.Collection{
		Id:           c.Id,
		Query:        c.Query,
		AiAnswer:     c.AiAnswer,
		VideoIds:     datatypes.NewJSONSlice(c.VideoIds),
		MetadataJson: datatypes.JSONMap(c.Metadata),
		CreatedAt:    c.CreatedAt,
	}
	if c.QueryEmbedding != nil {
		vec := pgvector.NewVector(c.QueryEmbedding)
		m2.QueryEmbedding = &vec
	}
	return m2
}

func (m *CollectionMapper) ToEntities(collections []*model.Collection) []*entity.Collection {
	entities := make([]*entity.Collection, len(collections))
	for i, c := range collections {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
