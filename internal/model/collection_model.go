package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Collection is a saved query session: the query, its answer and the ordered
// source videos. Immutable once saved except for delete.
type Collection struct {
	Id             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Query          string           `gorm:"type:text;not null"`
	QueryEmbedding *pgvector.Vector `gorm:"type:vector(384)"`
	AiAnswer       *string          `gorm:"type:text"`
	VideoIds       datatypes.JSONSlice[string]
	MetadataJson   datatypes.JSONMap
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Collection) TableName() string {
	return "collections"
}
