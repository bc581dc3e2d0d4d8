package service

import (
	"context"
	"encoding/json"

	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/specification"
	"ai-videosearch-be/internal/repository/unitofwork"
)

// backfillBatchLimit caps how many transcripts one backfill request
// enqueues, so a cold database does not flood the bus in one shot.
const backfillBatchLimit = 500

type IVideoService interface {
	List(ctx context.Context, limit, offset int) (*dto.ListVideosResponse, error)
	Show(ctx context.Context, id string) (*dto.ShowVideoResponse, error)
	RequestBackfill(ctx context.Context) (*dto.BackfillEmbeddingsResponse, error)
}

type videoService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	log              logger.ILogger
}

func NewVideoService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IVideoService {
	return &videoService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		log:              log,
	}
}

func (s *videoService) List(ctx context.Context, limit, offset int) (*dto.ListVideosResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	videos, err := uow.VideoRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}
	total, err := uow.VideoRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.ListVideosResponse{
		Videos: make([]dto.VideoSummary, len(videos)),
		Total:  total,
	}
	for i, v := range videos {
		res.Videos[i] = dto.VideoSummary{
			Id:        v.Id,
			Title:     v.DisplayTitle(),
			Author:    v.AuthorName(),
			Url:       v.Url,
			Source:    v.Source,
			ClipCount: v.ClipCount,
			CreatedAt: v.CreatedAt,
		}
	}
	return res, nil
}

func (s *videoService) Show(ctx context.Context, id string) (*dto.ShowVideoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	video, err := uow.VideoRepository().FindOne(ctx, specification.ByVideoId{Id: id})
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apperrors.NotFound("video", id)
	}

	transcript, err := uow.TranscriptRepository().FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	hasTranscript := transcript != nil

	return &dto.ShowVideoResponse{
		Id:            video.Id,
		Title:         video.DisplayTitle(),
		Author:        video.AuthorName(),
		Url:           video.Url,
		Source:        video.Source,
		Description:   video.Description,
		DurationSec:   video.DurationSec,
		Lang:          video.Lang,
		MediaPath:     video.MediaPath,
		Hashtags:      video.Hashtags,
		Metadata:      video.Metadata,
		HasTranscript: hasTranscript,
		CreatedAt:     video.CreatedAt,
	}, nil
}

// RequestBackfill enqueues one bus message per transcript that still lacks
// an embedding. The consumer does the actual embedding work.
func (s *videoService) RequestBackfill(ctx context.Context) (*dto.BackfillEmbeddingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	missing, err := uow.TranscriptRepository().FindMissingEmbeddings(ctx, backfillBatchLimit)
	if err != nil {
		return nil, err
	}

	for _, transcript := range missing {
		payload, err := json.Marshal(dto.PublishEmbedTranscriptMessage{VideoId: transcript.VideoId})
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			return nil, err
		}
	}

	s.log.Info("video", "embedding backfill requested", map[string]interface{}{
		"enqueued": len(missing),
	})

	return &dto.BackfillEmbeddingsResponse{Requested: len(missing) > 0}, nil
}
