package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveCollectionRequest struct {
	Query    string                 `json:"query" validate:"required"`
	AiAnswer *string                `json:"ai_answer"`
	VideoIds []string               `json:"video_ids" validate:"required,min=1"`
	Metadata map[string]interface{} `json:"metadata"`
}

type SaveCollectionResponse struct {
	Id uuid.UUID `json:"id"`
}

type CollectionSummary struct {
	Id         uuid.UUID `json:"id"`
	Query      string    `json:"query"`
	VideoCount int       `json:"video_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type CollectionVideo struct {
	VideoId string   `json:"video_id"`
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Url     string   `json:"url"`
	Source  string   `json:"source"`
	Score   *float64 `json:"score,omitempty"` // recorded at save time, if any
}

type ShowCollectionResponse struct {
	Id        uuid.UUID         `json:"id"`
	Query     string            `json:"query"`
	AiAnswer  *string           `json:"ai_answer"`
	Videos    []CollectionVideo `json:"videos"`
	CreatedAt time.Time         `json:"created_at"`
}

type SimilarCollectionResult struct {
	Id         uuid.UUID         `json:"id"`
	Query      string            `json:"query"`
	Similarity float64           `json:"similarity"`
	AiAnswer   *string           `json:"ai_answer"`
	Videos     []CollectionVideo `json:"videos"`
	CreatedAt  time.Time         `json:"created_at"`
}

type SimilarCollectionsResponse struct {
	Query       string                    `json:"query"`
	Collections []SimilarCollectionResult `json:"collections"`
}
