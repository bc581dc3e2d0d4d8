package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-videosearch-be/internal/config"
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/pkg/embedding"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: make([]float32, embedding.Dimensions)},
	}, nil
}

type fakeFeedbackIndex struct {
	contract.FeedbackRepository

	similar    []*contract.SimilarQuery
	similarErr error
	byQuery    map[string][]*entity.RetrievalFeedback
	byQueryErr error
}

func (f *fakeFeedbackIndex) SearchSimilarQueries(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*contract.SimilarQuery, error) {
	return f.similar, f.similarErr
}

func (f *fakeFeedbackIndex) FindByQuery(ctx context.Context, query string) ([]*entity.RetrievalFeedback, error) {
	return f.byQuery[query], f.byQueryErr
}

type fakeCollectionIndex struct {
	contract.CollectionRepository

	similar    []*contract.ScoredCollection
	similarErr error
}

func (f *fakeCollectionIndex) SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*contract.ScoredCollection, error) {
	return f.similar, f.similarErr
}

func testConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		QuerySimilarityThreshold:      0.85,
		CollectionSimilarityThreshold: 0.70,
		MaxSimilarQueries:             5,
		MaxSimilarCollections:         10,
	}
}

func newTestMatcher(embedder embedding.EmbeddingProvider, feedback contract.FeedbackRepository, collections contract.CollectionRepository) *Matcher {
	return NewMatcher(embedder, feedback, collections, testConfig(), logger.NewNopLogger())
}

func TestMatchQueriesLoadsFeedbackPerMatch(t *testing.T) {
	feedback := &fakeFeedbackIndex{
		similar: []*contract.SimilarQuery{
			{Query: "shoulder stretches", Similarity: 0.92},
			{Query: "rotator cuff rehab", Similarity: 0.88},
		},
		byQuery: map[string][]*entity.RetrievalFeedback{
			"shoulder stretches": {{Id: uuid.New(), Query: "shoulder stretches", VideoId: "v1", Sentiment: entity.SentimentGood}},
		},
	}
	m := newTestMatcher(&fakeEmbedder{}, feedback, &fakeCollectionIndex{})

	matches := m.MatchQueries(context.Background(), "shoulder pain", 0, 0)

	require.Len(t, matches, 2)
	assert.Equal(t, "shoulder stretches", matches[0].Query)
	assert.InDelta(t, 0.92, matches[0].Similarity, 1e-9)
	require.Len(t, matches[0].Feedback, 1)
	assert.Equal(t, "v1", matches[0].Feedback[0].VideoId)
	assert.Empty(t, matches[1].Feedback)
}

func TestMatchQueriesSkipsExactSameQuery(t *testing.T) {
	feedback := &fakeFeedbackIndex{
		similar: []*contract.SimilarQuery{
			{Query: "shoulder pain", Similarity: 1.0},
			{Query: "shoulder ache", Similarity: 0.9},
		},
	}
	m := newTestMatcher(&fakeEmbedder{}, feedback, &fakeCollectionIndex{})

	matches := m.MatchQueries(context.Background(), "shoulder pain", 0, 0)

	require.Len(t, matches, 1)
	assert.Equal(t, "shoulder ache", matches[0].Query)
}

func TestMatchQueriesHonorsRequestedK(t *testing.T) {
	feedback := &fakeFeedbackIndex{
		similar: []*contract.SimilarQuery{
			{Query: "q1", Similarity: 0.95},
			{Query: "q2", Similarity: 0.93},
			{Query: "q3", Similarity: 0.90},
		},
	}
	m := newTestMatcher(&fakeEmbedder{}, feedback, &fakeCollectionIndex{})

	matches := m.MatchQueries(context.Background(), "pain", 2, 0)

	require.Len(t, matches, 2)
	assert.Equal(t, "q1", matches[0].Query)
	assert.Equal(t, "q2", matches[1].Query)
}

func TestMatchCollectionsHonorsRequestedK(t *testing.T) {
	collections := &fakeCollectionIndex{
		similar: []*contract.ScoredCollection{
			{Collection: &entity.Collection{Id: uuid.New(), Query: "c1"}, Similarity: 0.9},
			{Collection: &entity.Collection{Id: uuid.New(), Query: "c2"}, Similarity: 0.8},
		},
	}
	m := newTestMatcher(&fakeEmbedder{}, &fakeFeedbackIndex{}, collections)

	matches := m.MatchCollections(context.Background(), "pain", 1, 0)

	require.Len(t, matches, 1)
	assert.Equal(t, "c1", matches[0].Collection.Query)
}

func TestMatchQueriesDegradesToEmpty(t *testing.T) {
	t.Run("embedding failure", func(t *testing.T) {
		m := newTestMatcher(&fakeEmbedder{err: errors.New("model down")}, &fakeFeedbackIndex{}, &fakeCollectionIndex{})
		assert.Empty(t, m.MatchQueries(context.Background(), "query", 0, 0))
	})

	t.Run("index failure", func(t *testing.T) {
		feedback := &fakeFeedbackIndex{similarErr: errors.New("db down")}
		m := newTestMatcher(&fakeEmbedder{}, feedback, &fakeCollectionIndex{})
		assert.Empty(t, m.MatchQueries(context.Background(), "query", 0, 0))
	})
}

func TestMatchCollectionsSkipsExactSameQuery(t *testing.T) {
	collections := &fakeCollectionIndex{
		similar: []*contract.ScoredCollection{
			{Collection: &entity.Collection{Id: uuid.New(), Query: "shoulder pain"}, Similarity: 1.0},
			{Collection: &entity.Collection{Id: uuid.New(), Query: "back pain relief"}, Similarity: 0.74},
		},
	}
	m := newTestMatcher(&fakeEmbedder{}, &fakeFeedbackIndex{}, collections)

	matches := m.MatchCollections(context.Background(), "shoulder pain", 0, 0)

	require.Len(t, matches, 1)
	assert.Equal(t, "back pain relief", matches[0].Collection.Query)
	assert.InDelta(t, 0.74, matches[0].Similarity, 1e-9)
}

func TestMatchCollectionsDegradesToEmpty(t *testing.T) {
	collections := &fakeCollectionIndex{similarErr: errors.New("db down")}
	m := newTestMatcher(&fakeEmbedder{}, &fakeFeedbackIndex{}, collections)

	assert.Empty(t, m.MatchCollections(context.Background(), "query", 0, 0))
}
