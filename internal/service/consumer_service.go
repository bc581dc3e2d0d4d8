package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/unitofwork"
	"ai-videosearch-be/pkg/embedding"
	"ai-videosearch-be/pkg/events"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed-backfill topic: each message names one
// transcript whose embedding column is still NULL.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    events.Publisher
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedTranscriptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal backfill message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed, retrying won't help
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	transcript, err := uow.TranscriptRepository().FindOne(ctx, payload.VideoId)
	if err != nil {
		cs.log.Error("consumer", "failed to load transcript", map[string]interface{}{
			"video_id": payload.VideoId,
			"error":    err.Error(),
		})
		msg.Nack()
		return
	}
	if transcript == nil {
		msg.Ack() // transcript deleted since enqueue
		return
	}
	if len(transcript.Embedding) > 0 {
		msg.Ack() // already embedded, duplicate enqueue
		return
	}

	description := ""
	video, err := uow.VideoRepository().FindByIds(ctx, []string{payload.VideoId})
	if err == nil && len(video) > 0 && video[0].Description != nil {
		description = *video[0].Description
	}

	content := embedding.CombineTextForEmbedding(transcript.Text, description)
	embedRes, err := cs.embeddingProvider.Generate(content, embedding.TaskRetrievalDocument)
	if err != nil {
		cs.log.Error("consumer", "embedding generation failed", map[string]interface{}{
			"video_id": payload.VideoId,
			"error":    err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.TranscriptRepository().UpdateEmbedding(ctx, payload.VideoId, embedRes.Embedding.Values); err != nil {
		cs.log.Error("consumer", "failed to store embedding", map[string]interface{}{
			"video_id": payload.VideoId,
			"error":    err.Error(),
		})
		msg.Nack()
		return
	}

	if err := cs.eventPublisher.Publish(ctx, events.NewEmbeddingBackfilled(payload.VideoId, len(embedRes.Embedding.Values))); err != nil {
		// auxiliary, never fails the work item
		cs.log.Warn("consumer", "failed to publish backfill event", map[string]interface{}{
			"video_id": payload.VideoId,
			"error":    err.Error(),
		})
	}

	cs.log.Info("consumer", "transcript embedded", map[string]interface{}{
		"video_id":   payload.VideoId,
		"dimensions": len(embedRes.Embedding.Values),
	})
	msg.Ack()
}
