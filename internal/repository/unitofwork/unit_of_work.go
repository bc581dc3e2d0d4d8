package unitofwork

import (
	"context"

	"ai-videosearch-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	VideoRepository() contract.VideoRepository
	TranscriptRepository() contract.TranscriptRepository
	FeedbackRepository() contract.FeedbackRepository
	CollectionRepository() contract.CollectionRepository
}
