package entity

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment is the persisted per-source vote.
type Sentiment string

const (
	SentimentGood Sentiment = "good"
	SentimentBad  Sentiment = "bad"
)

func (s Sentiment) Valid() bool {
	return s == SentimentGood || s == SentimentBad
}

// RetrievalFeedback is one live vote for a (query, video) pair. The store
// guarantees at most one per pair.
type RetrievalFeedback struct {
	Id             uuid.UUID
	Query          string
	VideoId        string
	Sentiment      Sentiment
	QueryEmbedding []float32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
