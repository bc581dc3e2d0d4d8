package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// RetrievalFeedback stores one sentiment per (query, video_id). The composite
// unique index is what the atomic upsert conflicts against; it is a hard
// constraint, not a convention.
type RetrievalFeedback struct {
	Id             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query          string           `gorm:"type:text;not null;uniqueIndex:idx_feedback_query_video"`
	VideoId        string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_feedback_query_video"`
	Sentiment      string           `gorm:"type:varchar(8);not null"` // "good" or "bad"
	QueryEmbedding *pgvector.Vector `gorm:"type:vector(384)"`         // nil when the embedder was down at vote time
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime"`
}

func (RetrievalFeedback) TableName() string {
	return "retrieval_feedback"
}
