package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/unitofwork"
	"ai-videosearch-be/pkg/embedding"
	"ai-videosearch-be/pkg/events"
)

const feedbackActionSaved = "saved"

type IFeedbackService interface {
	Save(ctx context.Context, req *dto.SaveFeedbackRequest) (*dto.SaveFeedbackResponse, error)
	Delete(ctx context.Context, req *dto.DeleteFeedbackRequest) error
	Get(ctx context.Context, query string, videoIds []string) (*dto.GetFeedbackResponse, error)
}

// feedbackService exposes the store's upsert/delete/get directly. Save is an
// idempotent upsert; the three-state toggle (re-clicking the recorded
// sentiment to un-vote) is a client decision based on prior state, expressed
// through the separate Delete call.
type feedbackService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    events.Publisher
	log               logger.ILogger
}

func NewFeedbackService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IFeedbackService {
	return &feedbackService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		log:               log,
	}
}

func (s *feedbackService) Save(ctx context.Context, req *dto.SaveFeedbackRequest) (*dto.SaveFeedbackResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sentiment := entity.Sentiment(req.Sentiment)

	// The query embedding rides along so similar-query matching works
	// without re-embedding historical queries later.
	var queryEmbedding []float32
	if embedRes, err := s.embeddingProvider.Generate(req.Query, embedding.TaskRetrievalQuery); err != nil {
		s.log.Warn("feedback", "query embedding failed, storing vote without one", map[string]interface{}{
			"query": req.Query,
			"error": err.Error(),
		})
	} else {
		queryEmbedding = embedRes.Embedding.Values
	}

	feedback := &entity.RetrievalFeedback{
		Id:             uuid.New(),
		Query:          req.Query,
		VideoId:        req.VideoId,
		Sentiment:      sentiment,
		QueryEmbedding: queryEmbedding,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := uow.FeedbackRepository().Upsert(ctx, feedback); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(ctx, events.NewFeedbackSaved(req.Query, req.VideoId, req.Sentiment)); err != nil {
		s.log.Warn("feedback", "failed to publish feedback event", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &dto.SaveFeedbackResponse{
		Query:     req.Query,
		VideoId:   req.VideoId,
		Sentiment: req.Sentiment,
		Action:    feedbackActionSaved,
	}, nil
}

func (s *feedbackService) Delete(ctx context.Context, req *dto.DeleteFeedbackRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FeedbackRepository().Delete(ctx, req.Query, req.VideoId); err != nil {
		return err
	}
	s.publishRemoved(ctx, req.Query, req.VideoId)
	return nil
}

func (s *feedbackService) Get(ctx context.Context, query string, videoIds []string) (*dto.GetFeedbackResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var rows []*entity.RetrievalFeedback
	var err error
	if len(videoIds) > 0 {
		rows, err = uow.FeedbackRepository().FindByQueryAndVideos(ctx, query, videoIds)
	} else {
		rows, err = uow.FeedbackRepository().FindByQuery(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	res := &dto.GetFeedbackResponse{
		Query:    query,
		Feedback: make([]dto.FeedbackItem, len(rows)),
	}
	for i, row := range rows {
		res.Feedback[i] = dto.FeedbackItem{
			VideoId:   row.VideoId,
			Sentiment: string(row.Sentiment),
		}
	}
	return res, nil
}

func (s *feedbackService) publishRemoved(ctx context.Context, query, videoId string) {
	if err := s.eventPublisher.Publish(ctx, events.NewFeedbackRemoved(query, videoId)); err != nil {
		s.log.Warn("feedback", "failed to publish feedback event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
