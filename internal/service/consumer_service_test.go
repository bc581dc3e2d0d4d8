package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/pkg/events"
)

func newTestConsumer(transcripts *memTranscriptRepo, videos *memVideoLookup) *consumerService {
	factory := &fakeUowFactory{uow: &fakeUow{transcripts: transcripts, videos: videos}}
	svc := NewConsumerService(nil, "EMBED_TRANSCRIPT", factory, stubEmbedder{}, events.NoopPublisher{}, logger.NewNopLogger())
	return svc.(*consumerService)
}

func backfillMessage(t *testing.T, videoId string) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishEmbedTranscriptMessage{VideoId: videoId})
	require.NoError(t, err)
	return message.NewMessage("1", payload)
}

func acked(msg *message.Message) bool {
	select {
	case <-msg.Acked():
		return true
	default:
		return false
	}
}

func TestConsumerAcksTranscriptDeletedSinceEnqueue(t *testing.T) {
	cs := newTestConsumer(
		&memTranscriptRepo{rows: map[string]*entity.Transcript{}},
		&memVideoLookup{memVideoRepo: memVideoRepo{rows: map[string]*entity.Video{}}},
	)
	msg := backfillMessage(t, "gone")

	assert.NotPanics(t, func() {
		cs.processMessage(context.Background(), msg)
	})
	assert.True(t, acked(msg), "deleted transcript should ack, not requeue")
}

func TestConsumerAcksAlreadyEmbedded(t *testing.T) {
	cs := newTestConsumer(
		&memTranscriptRepo{rows: map[string]*entity.Transcript{
			"v1": {VideoId: "v1", Text: "done", Embedding: make([]float32, 384)},
		}},
		&memVideoLookup{memVideoRepo: memVideoRepo{rows: map[string]*entity.Video{}}},
	)
	msg := backfillMessage(t, "v1")

	cs.processMessage(context.Background(), msg)

	assert.True(t, acked(msg), "already embedded transcript should ack")
}
