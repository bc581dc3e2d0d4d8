package retrieval

import (
	"context"
	"sort"

	"ai-videosearch-be/internal/config"
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/pkg/embedding"
	"ai-videosearch-be/pkg/rerank"
)

// Source is one retrieved video with its relevance score. Score is a
// softmax-normalized cross-encoder score, a probability over this request's
// candidate set; comparable within one response, not across responses.
type Source struct {
	VideoId    string        `json:"video_id"`
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	Url        string        `json:"url"`
	SourceType string        `json:"source_type"`
	Score      float64       `json:"score"`
	Similarity float64       `json:"similarity"`
	Snippet    string        `json:"snippet"`
	Transcript string        `json:"-"`
	Video      *entity.Video `json:"-"`
}

// Retriever runs the two-stage pipeline: ANN recall over transcript
// embeddings, then cross-encoder rerank over the recalled pool.
type Retriever struct {
	embedder    embedding.EmbeddingProvider
	transcripts contract.TranscriptRepository
	videos      contract.VideoRepository
	reranker    rerank.Reranker
	cfg         config.RetrievalConfig
	log         logger.ILogger
}

func NewRetriever(
	embedder embedding.EmbeddingProvider,
	transcripts contract.TranscriptRepository,
	videos contract.VideoRepository,
	reranker rerank.Reranker,
	cfg config.RetrievalConfig,
	log logger.ILogger,
) *Retriever {
	return &Retriever{
		embedder:    embedder,
		transcripts: transcripts,
		videos:      videos,
		reranker:    reranker,
		cfg:         cfg,
		log:         log,
	}
}

// Retrieve returns the kFinal most relevant sources for the query, skipping
// every video in excludeIds. An empty candidate pool is a valid outcome, not
// an error. kAnn/kFinal of zero fall back to configured defaults.
func (r *Retriever) Retrieve(ctx context.Context, query string, kAnn, kFinal int, excludeIds []string) ([]*Source, error) {
	if kAnn <= 0 {
		kAnn = r.cfg.KAnnDefault
	}
	if kFinal <= 0 {
		kFinal = r.cfg.KFinalDefault
	}

	embedRes, err := r.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	candidates, err := r.transcripts.SearchSimilarWithScore(ctx, embedRes.Embedding.Values, kAnn, excludeIds)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []*Source{}, nil
	}

	videoIds := make([]string, len(candidates))
	for i, c := range candidates {
		videoIds[i] = c.Transcript.VideoId
	}
	videos, err := r.videos.FindByIds(ctx, videoIds)
	if err != nil {
		return nil, err
	}
	videoById := make(map[string]*entity.Video, len(videos))
	for _, v := range videos {
		videoById[v.Id] = v
	}

	rerankInput := make([]rerank.Candidate, 0, len(candidates))
	byId := make(map[string]*contract.ScoredTranscript, len(candidates))
	for _, c := range candidates {
		video, ok := videoById[c.Transcript.VideoId]
		if !ok {
			// Transcript without a video row; ingest race, skip it.
			continue
		}
		byId[c.Transcript.VideoId] = c
		rerankInput = append(rerankInput, rerank.Candidate{
			Id:   c.Transcript.VideoId,
			Text: video.DisplayTitle() + "\n" + Excerpt(c.Transcript.Text, query, r.cfg.ExcerptWindowChars),
		})
	}
	if len(rerankInput) == 0 {
		return []*Source{}, nil
	}

	scored, err := r.reranker.Rerank(ctx, query, rerankInput)
	if err != nil {
		return nil, err
	}

	raw := make([]float64, len(scored))
	for i, s := range scored {
		raw[i] = s.Score
	}
	probs := rerank.Softmax(raw)

	sources := make([]*Source, 0, len(scored))
	for i, s := range scored {
		candidate := byId[s.Id]
		video := videoById[s.Id]
		sources = append(sources, &Source{
			VideoId:    s.Id,
			Title:      video.DisplayTitle(),
			Author:     video.AuthorName(),
			Url:        video.Url,
			SourceType: video.Source,
			Score:      probs[i],
			Similarity: candidate.Similarity,
			Snippet:    Snippet(candidate.Transcript.Text, query, r.cfg.SnippetChars),
			Transcript: candidate.Transcript.Text,
			Video:      video,
		})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Score > sources[j].Score
	})
	if len(sources) > kFinal {
		sources = sources[:kFinal]
	}

	r.log.Debug("retrieval", "two-stage retrieval done", map[string]interface{}{
		"query":      query,
		"candidates": len(candidates),
		"returned":   len(sources),
	})

	return sources, nil
}
