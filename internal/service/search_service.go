package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"ai-videosearch-be/internal/dto"
	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/unitofwork"
	"ai-videosearch-be/pkg/rag/answer"
	"ai-videosearch-be/pkg/rag/compose"
	"ai-videosearch-be/pkg/rag/retrieval"
	"ai-videosearch-be/pkg/rag/similarity"
)

// noResultsAnswer is returned when the whole pipeline yields zero sources;
// an empty pool is a valid outcome, not a failure.
const noResultsAnswer = "I couldn't find any relevant information in the video database to answer your question."

type ISearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	RagAnswer(ctx context.Context, req *dto.RagRequest) (*dto.RagResponse, error)
	SimilarQueries(ctx context.Context, req *dto.SearchRequest) (*dto.SimilarQueriesResponse, error)
	SimilarCollections(ctx context.Context, req *dto.SearchRequest) (*dto.SimilarCollectionsResponse, error)
}

type searchService struct {
	uowFactory unitofwork.RepositoryFactory
	retriever  *retrieval.Retriever
	matcher    *similarity.Matcher
	composer   *compose.Composer
	assembler  *answer.Assembler
	log        logger.ILogger
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *retrieval.Retriever,
	matcher *similarity.Matcher,
	composer *compose.Composer,
	assembler *answer.Assembler,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		uowFactory: uowFactory,
		retriever:  retriever,
		matcher:    matcher,
		composer:   composer,
		assembler:  assembler,
		log:        log,
	}
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	sources, err := s.retriever.Retrieve(ctx, req.Query, req.KAnn, req.K, nil)
	if err != nil {
		return nil, err
	}

	hits := make([]dto.SearchHit, len(sources))
	for i, src := range sources {
		hits[i] = dto.SearchHit{
			VideoId:    src.VideoId,
			Title:      src.Title,
			Author:     src.Author,
			Url:        src.Url,
			Source:     src.SourceType,
			Score:      src.Score,
			Similarity: src.Similarity,
			Snippet:    src.Snippet,
		}
	}

	return &dto.SearchResponse{
		Query: req.Query,
		Hits:  hits,
		Total: len(hits),
	}, nil
}

// RagAnswer runs the full pipeline: match prior feedback and collections,
// compute exclusions, search fresh sources, merge under priority rules, and
// generate a cited answer over the final list.
func (s *searchService) RagAnswer(ctx context.Context, req *dto.RagRequest) (*dto.RagResponse, error) {
	query := strings.TrimSpace(req.Query)

	queryMatches := s.matcher.MatchQueries(ctx, query, 0, 0)
	collectionMatches := s.collectionMatches(ctx, query, req.SimilarCollectionIds)

	signals := s.composer.BuildSignals(ctx, queryMatches, collectionMatches)
	excludeIds := signals.ExcludeIds()

	s.log.Info("search", "rag pipeline signals", map[string]interface{}{
		"query":             query,
		"similar_queries":   len(queryMatches),
		"similar_colls":     len(collectionMatches),
		"excluded_from_ann": len(excludeIds),
	})

	fresh, err := s.retriever.Retrieve(ctx, query, req.KAnn, req.KFinal, excludeIds)
	if err != nil {
		return nil, err
	}

	composed, err := s.composer.Merge(ctx, query, signals, fresh, req.KFinal)
	if err != nil {
		return nil, err
	}

	res := &dto.RagResponse{
		Query:          query,
		Sources:        make([]dto.RagSource, len(composed.Sources)),
		ExcludedVideos: composed.Excluded,
	}
	for i, src := range composed.Sources {
		res.Sources[i] = dto.RagSource{
			VideoId:   src.VideoId,
			Title:     src.Title,
			Author:    src.Author,
			Url:       src.Url,
			Source:    src.SourceType,
			Score:     src.Score,
			Origin:    string(src.Origin),
			Reference: src.Reference,
			Snippet:   src.Snippet,
		}
	}

	if len(composed.Sources) == 0 {
		res.Answer = noResultsAnswer
		return res, nil
	}

	assembled, err := s.assembler.Generate(ctx, query, composed.Sources)
	if err != nil {
		if !errors.Is(err, apperrors.ErrGenerationFailure) {
			return nil, err
		}
		// The composed sources and the exclusion report are still good;
		// only the answer is unavailable.
		s.log.Warn("search", "answer generation failed, returning sources without an answer", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		res.AnswerUnavailable = true
		return res, nil
	}
	res.Answer = assembled.Answer
	res.Citations = assembled.Citations

	return res, nil
}

// collectionMatches resolves the collection signal: explicit ids from the
// request win over server-side matching. Dangling ids are skipped, not
// errors, since the client may hold a stale selection.
func (s *searchService) collectionMatches(ctx context.Context, query string, ids []uuid.UUID) []*similarity.CollectionMatch {
	if len(ids) == 0 {
		return s.matcher.MatchCollections(ctx, query, 0, 0)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches := make([]*similarity.CollectionMatch, 0, len(ids))
	for _, id := range ids {
		collection, err := uow.CollectionRepository().FindOne(ctx, id)
		if err != nil {
			s.log.Warn("search", "loading requested collection failed", map[string]interface{}{
				"collection_id": id.String(),
				"error":         err.Error(),
			})
			continue
		}
		if collection == nil {
			continue
		}
		matches = append(matches, &similarity.CollectionMatch{
			Collection: collection,
			Similarity: 1.0, // explicitly chosen by the caller
		})
	}
	return matches
}

func (s *searchService) SimilarQueries(ctx context.Context, req *dto.SearchRequest) (*dto.SimilarQueriesResponse, error) {
	query := req.Query
	matches := s.matcher.MatchQueries(ctx, query, req.K, req.KAnn)

	results := make([]dto.SimilarQueryResult, len(matches))
	for i, m := range matches {
		result := dto.SimilarQueryResult{
			Query:        m.Query,
			Similarity:   m.Similarity,
			GoodVideoIds: []string{},
			BadVideoIds:  []string{},
		}
		for _, row := range m.Feedback {
			switch row.Sentiment {
			case "good":
				result.GoodVideoIds = append(result.GoodVideoIds, row.VideoId)
			case "bad":
				result.BadVideoIds = append(result.BadVideoIds, row.VideoId)
			}
		}
		results[i] = result
	}

	return &dto.SimilarQueriesResponse{
		Query:          query,
		SimilarQueries: results,
	}, nil
}

func (s *searchService) SimilarCollections(ctx context.Context, req *dto.SearchRequest) (*dto.SimilarCollectionsResponse, error) {
	query := req.Query
	matches := s.matcher.MatchCollections(ctx, query, req.K, req.KAnn)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	results := make([]dto.SimilarCollectionResult, 0, len(matches))
	for _, m := range matches {
		videos, err := hydrateCollectionVideos(ctx, uow, m.Collection)
		if err != nil {
			return nil, err
		}
		results = append(results, dto.SimilarCollectionResult{
			Id:         m.Collection.Id,
			Query:      m.Collection.Query,
			Similarity: m.Similarity,
			AiAnswer:   m.Collection.AiAnswer,
			Videos:     videos,
			CreatedAt:  m.Collection.CreatedAt,
		})
	}

	return &dto.SimilarCollectionsResponse{
		Query:       query,
		Collections: results,
	}, nil
}
