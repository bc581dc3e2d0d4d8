package similarity

import (
	"context"

	"ai-videosearch-be/internal/config"
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/pkg/embedding"
)

// QueryMatch is a prior query that cleared the similarity threshold,
// enriched with its live feedback rows.
type QueryMatch struct {
	Query      string
	Similarity float64
	Feedback   []*entity.RetrievalFeedback
}

// CollectionMatch is a saved collection whose stored query embedding
// cleared the collection threshold.
type CollectionMatch struct {
	Collection *entity.Collection
	Similarity float64
}

// Matcher finds prior queries and saved collections semantically close to
// the current query. Matching is best-effort context enrichment: any
// failure degrades to an empty result instead of failing the search.
type Matcher struct {
	embedder    embedding.EmbeddingProvider
	feedback    contract.FeedbackRepository
	collections contract.CollectionRepository
	cfg         config.RetrievalConfig
	log         logger.ILogger
}

func NewMatcher(
	embedder embedding.EmbeddingProvider,
	feedback contract.FeedbackRepository,
	collections contract.CollectionRepository,
	cfg config.RetrievalConfig,
	log logger.ILogger,
) *Matcher {
	return &Matcher{
		embedder:    embedder,
		feedback:    feedback,
		collections: collections,
		cfg:         cfg,
		log:         log,
	}
}

// MatchQueries returns at most k prior feedback queries similar to query,
// most similar first, with the exact same query string skipped. kAnn sizes
// the database candidate pull before that filtering. Zero values fall back
// to configured defaults. The threshold is deliberately strict: reusing
// another query's votes is only safe when the two queries mean nearly the
// same thing.
func (m *Matcher) MatchQueries(ctx context.Context, query string, k, kAnn int) []*QueryMatch {
	if k <= 0 {
		k = m.cfg.MaxSimilarQueries
	}
	if kAnn <= 0 {
		kAnn = k + 1 // headroom for the skipped identical query
	}

	embedRes, err := m.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		m.log.Warn("similarity", "query embedding failed, skipping feedback reuse", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return []*QueryMatch{}
	}

	similar, err := m.feedback.SearchSimilarQueries(ctx, embedRes.Embedding.Values, m.cfg.QuerySimilarityThreshold, kAnn)
	if err != nil {
		m.log.Warn("similarity", "similar query lookup failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return []*QueryMatch{}
	}

	matches := make([]*QueryMatch, 0, len(similar))
	for _, s := range similar {
		if len(matches) == k {
			break
		}
		if s.Query == query {
			continue
		}
		rows, err := m.feedback.FindByQuery(ctx, s.Query)
		if err != nil {
			m.log.Warn("similarity", "loading feedback for similar query failed", map[string]interface{}{
				"similar_query": s.Query,
				"error":         err.Error(),
			})
			continue
		}
		matches = append(matches, &QueryMatch{
			Query:      s.Query,
			Similarity: s.Similarity,
			Feedback:   rows,
		})
	}
	return matches
}

// MatchCollections returns at most k saved collections similar to query,
// most similar first, with exact-same-query collections skipped. kAnn sizes
// the database candidate pull; zero values fall back to configured defaults.
func (m *Matcher) MatchCollections(ctx context.Context, query string, k, kAnn int) []*CollectionMatch {
	if k <= 0 {
		k = m.cfg.MaxSimilarCollections
	}
	if kAnn <= 0 {
		kAnn = k + 1
	}

	embedRes, err := m.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		m.log.Warn("similarity", "query embedding failed, skipping collection reuse", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return []*CollectionMatch{}
	}

	similar, err := m.collections.SearchSimilarWithScore(ctx, embedRes.Embedding.Values, m.cfg.CollectionSimilarityThreshold, kAnn)
	if err != nil {
		m.log.Warn("similarity", "similar collection lookup failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return []*CollectionMatch{}
	}

	matches := make([]*CollectionMatch, 0, len(similar))
	for _, s := range similar {
		if len(matches) == k {
			break
		}
		if s.Collection.Query == query {
			continue
		}
		matches = append(matches, &CollectionMatch{
			Collection: s.Collection,
			Similarity: s.Similarity,
		})
	}
	return matches
}
