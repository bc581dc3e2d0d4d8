package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type Transcript struct {
	VideoId   string  `gorm:"type:varchar(64);primaryKey"`
	Text      *string `gorm:"type:text"`
	Summary   *string `gorm:"type:text"`
	Embedding *pgvector.Vector `gorm:"type:vector(384)"` // all-MiniLM family, 384 dimensions
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
}

func (Transcript) TableName() string {
	return "transcripts"
}
