package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/internal/repository/unitofwork"
	"ai-videosearch-be/pkg/embedding"
	"ai-videosearch-be/pkg/events"
)

// memFeedbackStore is an in-memory stand-in honoring the store contract:
// one live row per (query, video_id), upsert overwrites, delete is a no-op
// on missing rows.
type memFeedbackStore struct {
	contract.FeedbackRepository

	rows map[[2]string]*entity.RetrievalFeedback
}

func newMemFeedbackStore() *memFeedbackStore {
	return &memFeedbackStore{rows: make(map[[2]string]*entity.RetrievalFeedback)}
}

func (m *memFeedbackStore) Upsert(ctx context.Context, feedback *entity.RetrievalFeedback) error {
	key := [2]string{feedback.Query, feedback.VideoId}
	if existing, ok := m.rows[key]; ok {
		existing.Sentiment = feedback.Sentiment
		existing.UpdatedAt = feedback.UpdatedAt
		return nil
	}
	m.rows[key] = feedback
	return nil
}

func (m *memFeedbackStore) Delete(ctx context.Context, query string, videoId string) error {
	delete(m.rows, [2]string{query, videoId})
	return nil
}

func (m *memFeedbackStore) FindByQueryAndVideos(ctx context.Context, query string, videoIds []string) ([]*entity.RetrievalFeedback, error) {
	var out []*entity.RetrievalFeedback
	for _, id := range videoIds {
		if row, ok := m.rows[[2]string{query, id}]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memFeedbackStore) FindByQuery(ctx context.Context, query string) ([]*entity.RetrievalFeedback, error) {
	var out []*entity.RetrievalFeedback
	for key, row := range m.rows {
		if key[0] == query {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork

	feedback    *memFeedbackStore
	collections contract.CollectionRepository
	videos      contract.VideoRepository
	transcripts contract.TranscriptRepository
}

func (f *fakeUow) FeedbackRepository() contract.FeedbackRepository     { return f.feedback }
func (f *fakeUow) CollectionRepository() contract.CollectionRepository { return f.collections }
func (f *fakeUow) VideoRepository() contract.VideoRepository           { return f.videos }
func (f *fakeUow) TranscriptRepository() contract.TranscriptRepository { return f.transcripts }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type stubEmbedder struct{}

func (stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: make([]float32, embedding.Dimensions)},
	}, nil
}

func newTestFeedbackService() (IFeedbackService, *memFeedbackStore) {
	store := newMemFeedbackStore()
	factory := &fakeUowFactory{uow: &fakeUow{feedback: store}}
	svc := NewFeedbackService(factory, stubEmbedder{}, events.NoopPublisher{}, logger.NewNopLogger())
	return svc, store
}

func save(t *testing.T, svc IFeedbackService, sentiment string) *dto.SaveFeedbackResponse {
	t.Helper()
	res, err := svc.Save(context.Background(), &dto.SaveFeedbackRequest{
		Query:     "how to deadlift",
		VideoId:   "v1",
		Sentiment: sentiment,
	})
	require.NoError(t, err)
	return res
}

func TestFeedbackSaveUpserts(t *testing.T) {
	t.Run("first vote saves it", func(t *testing.T) {
		svc, store := newTestFeedbackService()

		res := save(t, svc, "good")

		assert.Equal(t, feedbackActionSaved, res.Action)
		assert.Equal(t, "good", res.Sentiment)
		require.Len(t, store.rows, 1)
	})

	t.Run("same vote again is idempotent", func(t *testing.T) {
		svc, store := newTestFeedbackService()

		save(t, svc, "good")
		res := save(t, svc, "good")

		assert.Equal(t, feedbackActionSaved, res.Action)
		assert.Equal(t, "good", res.Sentiment)
		// Exactly one row survives, not zero and not two.
		require.Len(t, store.rows, 1)
		assert.Equal(t, entity.SentimentGood, store.rows[[2]string{"how to deadlift", "v1"}].Sentiment)
	})

	t.Run("opposite vote overwrites in place", func(t *testing.T) {
		svc, store := newTestFeedbackService()

		save(t, svc, "good")
		res := save(t, svc, "bad")

		assert.Equal(t, feedbackActionSaved, res.Action)
		assert.Equal(t, "bad", res.Sentiment)
		require.Len(t, store.rows, 1)
		assert.Equal(t, entity.SentimentBad, store.rows[[2]string{"how to deadlift", "v1"}].Sentiment)
	})

	t.Run("un-vote goes through delete, not save", func(t *testing.T) {
		svc, store := newTestFeedbackService()

		save(t, svc, "good")
		err := svc.Delete(context.Background(), &dto.DeleteFeedbackRequest{
			Query:   "how to deadlift",
			VideoId: "v1",
		})

		require.NoError(t, err)
		assert.Empty(t, store.rows)
	})
}

func TestFeedbackDeleteIsIdempotent(t *testing.T) {
	svc, store := newTestFeedbackService()

	save(t, svc, "good")

	req := &dto.DeleteFeedbackRequest{Query: "how to deadlift", VideoId: "v1"}
	require.NoError(t, svc.Delete(context.Background(), req))
	require.NoError(t, svc.Delete(context.Background(), req))

	assert.Empty(t, store.rows)
}

func TestFeedbackGetFiltersByVideos(t *testing.T) {
	svc, _ := newTestFeedbackService()

	save(t, svc, "good")
	_, err := svc.Save(context.Background(), &dto.SaveFeedbackRequest{
		Query:     "how to deadlift",
		VideoId:   "v2",
		Sentiment: "bad",
	})
	require.NoError(t, err)

	res, err := svc.Get(context.Background(), "how to deadlift", []string{"v2"})
	require.NoError(t, err)
	require.Len(t, res.Feedback, 1)
	assert.Equal(t, "v2", res.Feedback[0].VideoId)
	assert.Equal(t, "bad", res.Feedback[0].Sentiment)

	all, err := svc.Get(context.Background(), "how to deadlift", nil)
	require.NoError(t, err)
	assert.Len(t, all.Feedback, 2)
}
