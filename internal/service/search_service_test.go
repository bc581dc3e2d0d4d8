package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-videosearch-be/internal/config"
	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/pkg/llm"
	"ai-videosearch-be/pkg/rag/answer"
	"ai-videosearch-be/pkg/rag/compose"
	"ai-videosearch-be/pkg/rag/retrieval"
	"ai-videosearch-be/pkg/rag/similarity"
	"ai-videosearch-be/pkg/rerank"
)

// annTranscriptRepo serves the ANN stage from an ordered in-memory corpus.
type annTranscriptRepo struct {
	*memTranscriptRepo

	order []string
}

func (r *annTranscriptRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, excludeIds []string) ([]*contract.ScoredTranscript, error) {
	excluded := make(map[string]bool, len(excludeIds))
	for _, id := range excludeIds {
		excluded[id] = true
	}
	var out []*contract.ScoredTranscript
	for i, id := range r.order {
		if excluded[id] || len(out) == limit {
			continue
		}
		out = append(out, &contract.ScoredTranscript{
			Transcript: r.rows[id],
			Similarity: 0.9 - float64(i)*0.1,
		})
	}
	return out, nil
}

type quietFeedbackRepo struct {
	*memFeedbackStore
}

func (quietFeedbackRepo) SearchSimilarQueries(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*contract.SimilarQuery, error) {
	return nil, nil
}

type quietCollectionRepo struct {
	*memCollectionRepo
}

func (quietCollectionRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*contract.ScoredCollection, error) {
	return nil, nil
}

// orderReranker scores candidates by position, keeping input order.
type orderReranker struct{}

func (orderReranker) Rerank(ctx context.Context, query string, candidates []rerank.Candidate) ([]rerank.Scored, error) {
	scored := make([]rerank.Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = rerank.Scored{Id: c.Id, Score: float64(len(candidates) - i)}
	}
	return scored, nil
}

type scriptedModel struct {
	answer string
	err    error
}

func (m scriptedModel) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return m.answer, m.err
}

func (m scriptedModel) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return m.answer, m.err
}

type ragFixture struct {
	videos      *memVideoRepo
	transcripts *annTranscriptRepo
	feedback    quietFeedbackRepo
	collections quietCollectionRepo
}

func newRagFixture() *ragFixture {
	title := func(s string) *string { return &s }
	return &ragFixture{
		videos: &memVideoRepo{rows: map[string]*entity.Video{
			"v1": {Id: "v1", Source: "youtube", Url: "https://v/1", Title: title("Shoulder warmup")},
			"v2": {Id: "v2", Source: "youtube", Url: "https://v/2", Title: title("Bad form demo")},
			"v3": {Id: "v3", Source: "youtube", Url: "https://v/3", Title: title("Mobility drills")},
		}},
		transcripts: &annTranscriptRepo{
			memTranscriptRepo: &memTranscriptRepo{rows: map[string]*entity.Transcript{
				"v1": {VideoId: "v1", Text: "rotate the shoulder slowly", Embedding: make([]float32, 384)},
				"v2": {VideoId: "v2", Text: "a demo of what not to do", Embedding: make([]float32, 384)},
				"v3": {VideoId: "v3", Text: "daily mobility drills for shoulders", Embedding: make([]float32, 384)},
			}},
			order: []string{"v1", "v2", "v3"},
		},
		feedback:    quietFeedbackRepo{newMemFeedbackStore()},
		collections: quietCollectionRepo{newMemCollectionRepo()},
	}
}

func newTestSearchService(f *ragFixture, model llm.LLMProvider) ISearchService {
	cfg := config.RetrievalConfig{
		KAnnDefault:                   50,
		KFinalDefault:                 10,
		QuerySimilarityThreshold:      0.9,
		CollectionSimilarityThreshold: 0.75,
		MaxSimilarQueries:             5,
		MaxSimilarCollections:         10,
		ExcerptWindowChars:            500,
		SnippetChars:                  200,
	}
	log := logger.NewNopLogger()
	factory := &fakeUowFactory{uow: &fakeUow{
		collections: f.collections,
		videos:      f.videos,
	}}
	return NewSearchService(
		factory,
		retrieval.NewRetriever(stubEmbedder{}, f.transcripts, f.videos, orderReranker{}, cfg, log),
		similarity.NewMatcher(stubEmbedder{}, f.feedback, f.collections, cfg, log),
		compose.NewComposer(f.videos, f.transcripts, f.feedback, log),
		answer.NewAssembler(model, log),
		log,
	)
}

func TestRagAnswerKeepsSourcesWhenGenerationFails(t *testing.T) {
	f := newRagFixture()
	svc := newTestSearchService(f, scriptedModel{err: errors.New("model overloaded")})

	res, err := svc.RagAnswer(context.Background(), &dto.RagRequest{Query: "shoulder mobility"})

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.AnswerUnavailable)
	assert.Empty(t, res.Answer)
	require.Len(t, res.Sources, 3, "sources must survive a failed generation")
	assert.Equal(t, "v1", res.Sources[0].VideoId)
}

func TestRagAnswerUsesRequestedCollections(t *testing.T) {
	f := newRagFixture()
	collectionId := uuid.New()
	f.collections.rows[collectionId] = &entity.Collection{
		Id:        collectionId,
		Query:     "shoulder pain exercises",
		VideoIds:  []string{"v1", "v2"},
		CreatedAt: time.Now(),
	}
	f.feedback.rows[[2]string{"shoulder pain exercises", "v1"}] = &entity.RetrievalFeedback{
		Query: "shoulder pain exercises", VideoId: "v1", Sentiment: entity.SentimentGood,
	}
	f.feedback.rows[[2]string{"shoulder pain exercises", "v2"}] = &entity.RetrievalFeedback{
		Query: "shoulder pain exercises", VideoId: "v2", Sentiment: entity.SentimentBad,
	}
	svc := newTestSearchService(f, scriptedModel{answer: "Start slowly [1]."})

	res, err := svc.RagAnswer(context.Background(), &dto.RagRequest{
		Query:                "shoulder mobility",
		SimilarCollectionIds: []uuid.UUID{collectionId},
	})

	require.NoError(t, err)
	require.NotEmpty(t, res.Sources)
	assert.Equal(t, "v1", res.Sources[0].VideoId, "collection-liked video leads the list")
	assert.Equal(t, string(compose.OriginCollection), res.Sources[0].Origin)
	for _, src := range res.Sources {
		assert.NotEqual(t, "v2", src.VideoId, "collection-disliked video must not be a source")
	}
	require.Len(t, res.ExcludedVideos, 1)
	assert.Equal(t, "v2", res.ExcludedVideos[0].VideoId)
	assert.Equal(t, compose.ReasonDislikedInCollection, res.ExcludedVideos[0].Reason)
}

func TestRagAnswerSkipsDanglingRequestedCollections(t *testing.T) {
	f := newRagFixture()
	svc := newTestSearchService(f, scriptedModel{answer: "Use the drills [1]."})

	res, err := svc.RagAnswer(context.Background(), &dto.RagRequest{
		Query:                "shoulder mobility",
		SimilarCollectionIds: []uuid.UUID{uuid.New()},
	})

	require.NoError(t, err)
	assert.Len(t, res.Sources, 3)
	assert.Empty(t, res.ExcludedVideos)
}
