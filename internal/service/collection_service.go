package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/unitofwork"
	"ai-videosearch-be/pkg/embedding"
	"ai-videosearch-be/pkg/events"
)

type ICollectionService interface {
	Save(ctx context.Context, req *dto.SaveCollectionRequest) (*dto.SaveCollectionResponse, error)
	List(ctx context.Context) ([]dto.CollectionSummary, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowCollectionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type collectionService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    events.Publisher
	log               logger.ILogger
}

func NewCollectionService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher events.Publisher,
	log logger.ILogger,
) ICollectionService {
	return &collectionService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		log:               log,
	}
}

func (s *collectionService) Save(ctx context.Context, req *dto.SaveCollectionRequest) (*dto.SaveCollectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The stored query embedding is what similar-collection matching runs
	// against; a collection without one can never be matched, so embedding
	// failure fails the save.
	embedRes, err := s.embeddingProvider.Generate(req.Query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	collection := &entity.Collection{
		Id:             uuid.New(),
		Query:          req.Query,
		QueryEmbedding: embedRes.Embedding.Values,
		AiAnswer:       req.AiAnswer,
		VideoIds:       req.VideoIds,
		Metadata:       req.Metadata,
		CreatedAt:      time.Now(),
	}
	if err := uow.CollectionRepository().Create(ctx, collection); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(ctx, events.NewCollectionSaved(collection.Id.String(), req.Query, len(req.VideoIds))); err != nil {
		s.log.Warn("collection", "failed to publish collection event", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &dto.SaveCollectionResponse{Id: collection.Id}, nil
}

func (s *collectionService) List(ctx context.Context) ([]dto.CollectionSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	collections, err := uow.CollectionRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.CollectionSummary, len(collections))
	for i, c := range collections {
		summaries[i] = dto.CollectionSummary{
			Id:         c.Id,
			Query:      c.Query,
			VideoCount: len(c.VideoIds),
			CreatedAt:  c.CreatedAt,
		}
	}
	return summaries, nil
}

func (s *collectionService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowCollectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	collection, err := uow.CollectionRepository().FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, apperrors.NotFound("collection", id.String())
	}

	videos, err := hydrateCollectionVideos(ctx, uow, collection)
	if err != nil {
		return nil, err
	}

	return &dto.ShowCollectionResponse{
		Id:        collection.Id,
		Query:     collection.Query,
		AiAnswer:  collection.AiAnswer,
		Videos:    videos,
		CreatedAt: collection.CreatedAt,
	}, nil
}

func (s *collectionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CollectionRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := s.eventPublisher.Publish(ctx, events.NewCollectionDeleted(id.String())); err != nil {
		s.log.Warn("collection", "failed to publish collection event", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

// hydrateCollectionVideos resolves a collection's stored video ids into
// response entries, preserving the stored order and skipping ids whose
// videos have since been deleted.
func hydrateCollectionVideos(ctx context.Context, uow unitofwork.UnitOfWork, collection *entity.Collection) ([]dto.CollectionVideo, error) {
	if len(collection.VideoIds) == 0 {
		return []dto.CollectionVideo{}, nil
	}

	videos, err := uow.VideoRepository().FindByIds(ctx, collection.VideoIds)
	if err != nil {
		return nil, err
	}
	videoById := make(map[string]*entity.Video, len(videos))
	for _, v := range videos {
		videoById[v.Id] = v
	}

	out := make([]dto.CollectionVideo, 0, len(collection.VideoIds))
	for _, id := range collection.VideoIds {
		video, ok := videoById[id]
		if !ok {
			continue
		}
		out = append(out, dto.CollectionVideo{
			VideoId: video.Id,
			Title:   video.DisplayTitle(),
			Author:  video.AuthorName(),
			Url:     video.Url,
			Source:  video.Source,
			Score:   collection.SourceScore(video.Id),
		})
	}
	return out, nil
}
