package model

import (
	"time"

	"gorm.io/datatypes"
)

// Video rows are written by the ingestion service; this backend only reads
// them. Id is the platform-native id, not a UUID.
type Video struct {
	Id          string `gorm:"type:varchar(64);primaryKey"`
	Source      string `gorm:"not null"`
	Url         string `gorm:"not null"`
	Title       *string
	Description *string `gorm:"type:text"`
	ClipCount   int     `gorm:"not null;default:1"`
	Author      *string
	DurationSec *int
	Lang        string `gorm:"default:en"`
	MediaPath   *string
	Hashtags    datatypes.JSONSlice[string]
	MetadataJson datatypes.JSONMap
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Video) TableName() string {
	return "videos"
}
