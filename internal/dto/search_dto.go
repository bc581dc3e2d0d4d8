package dto

import (
	"github.com/google/uuid"

	"ai-videosearch-be/pkg/rag/answer"
	"ai-videosearch-be/pkg/rag/compose"
)

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	K     int    `json:"k" validate:"omitempty,min=1,max=100"`
	KAnn  int    `json:"k_ann" validate:"omitempty,min=1,max=500"`
}

type SearchHit struct {
	VideoId    string  `json:"video_id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Url        string  `json:"url"`
	Source     string  `json:"source"`
	Score      float64 `json:"score"` // softmax over this request's candidates
	Similarity float64 `json:"similarity"`
	Snippet    string  `json:"snippet"`
}

type SearchResponse struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
	Total int         `json:"total"`
}

type RagRequest struct {
	Query  string `json:"query" validate:"required"`
	KAnn   int    `json:"k_ann" validate:"omitempty,min=1,max=500"`
	KFinal int    `json:"k_final" validate:"omitempty,min=1,max=50"`
	// Pre-selected collections (from a prior similar-collections call);
	// when set they replace the server-side collection matching.
	SimilarCollectionIds []uuid.UUID `json:"similar_collection_ids" validate:"omitempty"`
}

type RagSource struct {
	VideoId   string  `json:"video_id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Url       string  `json:"url"`
	Source    string  `json:"source"`
	Score     float64 `json:"score"`
	Origin    string  `json:"origin"` // collection | feedback | search
	Reference string  `json:"source_reference"`
	Snippet   string  `json:"snippet"`
}

type RagResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
	// AnswerUnavailable marks a generation failure; the composed sources
	// and exclusion report below are still valid.
	AnswerUnavailable bool                     `json:"answer_unavailable"`
	Sources           []RagSource              `json:"sources"`
	ExcludedVideos    []*compose.ExcludedVideo `json:"excluded_videos"`
	Citations         []answer.Citation        `json:"citations"`
}

type SimilarQueryResult struct {
	Query        string   `json:"query"`
	Similarity   float64  `json:"similarity"`
	GoodVideoIds []string `json:"good_video_ids"`
	BadVideoIds  []string `json:"bad_video_ids"`
}

type SimilarQueriesResponse struct {
	Query          string               `json:"query"`
	SimilarQueries []SimilarQueryResult `json:"similar_queries"`
}
