package mapper

import (
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type TranscriptMapper struct{}

func NewTranscriptMapper() *TranscriptMapper {
	return &TranscriptMapper{}
}

func (m *TranscriptMapper) ToEntity(t *model.Transcript) *entity.Transcript {
	if t == nil {
		return nil
	}

	var text, summary string
	if t.Text != nil {
		text = *t.Text
	}
	if t.Summary != nil {
		summary = *t.Summary
	}

	var embedding []float32
	if t.Embedding != nil {
		embedding = t.Embedding.Slice()
	}

	return &entity.Transcript{
		VideoId:   t.VideoId,
		Text:      text,
		Summary:   summary,
		Embedding: embedding,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *TranscriptMapper) ToModel(t *entity.Transcript) *model.Transcript {
	if t == nil {
		return nil
	}

	mod := &model.Transcript{
		VideoId:   t.VideoId,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Text != "" {
		text := t.Text
		mod.Text = &text
	}
	if t.Summary != "" {
		summary := t.Summary
		mod.Summary = &summary
	}
	if t.Embedding != nil {
		vec := pgvector.NewVector(t.Embedding)
		mod.Embedding = &vec
	}
	return mod
}
