package entity

import (
	"time"

	"github.com/google/uuid"
)

type Collection struct {
	Id             uuid.UUID
	Query          string
	QueryEmbedding []float32
	AiAnswer       *string
	VideoIds       []string
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}

// SourceScore reads a per-video score recorded in the collection metadata at
// save time, if any.
func (c *Collection) SourceScore(videoId string) *float64 {
	raw, ok := c.Metadata["source_scores"]
	if !ok {
		return nil
	}
	scores, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	v, ok := scores[videoId]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
