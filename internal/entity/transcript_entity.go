package entity

import "time"

type Transcript struct {
	VideoId   string
	Text      string
	Summary   string
	Embedding []float32 // nil until the backfill worker has embedded it
	UpdatedAt time.Time
}
