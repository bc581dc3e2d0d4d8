package dto

import "time"

type VideoSummary struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Url       string    `json:"url"`
	Source    string    `json:"source"`
	ClipCount int       `json:"clip_count"`
	CreatedAt time.Time `json:"created_at"`
}

type ListVideosResponse struct {
	Videos []VideoSummary `json:"videos"`
	Total  int64          `json:"total"`
}

type ShowVideoResponse struct {
	Id            string                 `json:"id"`
	Title         string                 `json:"title"`
	Author        string                 `json:"author"`
	Url           string                 `json:"url"`
	Source        string                 `json:"source"`
	Description   *string                `json:"description"`
	DurationSec   *int                   `json:"duration_sec"`
	Lang          string                 `json:"lang"`
	MediaPath     *string                `json:"media_path"`
	Hashtags      []string               `json:"hashtags"`
	Metadata      map[string]interface{} `json:"metadata"`
	HasTranscript bool                   `json:"has_transcript"`
	CreatedAt     time.Time              `json:"created_at"`
}

type BackfillEmbeddingsResponse struct {
	Requested bool `json:"requested"`
}

// PublishEmbedTranscriptMessage is the backfill bus payload: one message
// per transcript that still needs an embedding.
type PublishEmbedTranscriptMessage struct {
	VideoId string `json:"video_id"`
}
