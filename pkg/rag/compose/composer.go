package compose

import (
	"context"
	"errors"

	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/pkg/rag/retrieval"
	"ai-videosearch-be/pkg/rag/similarity"
)

// Origin says which path put a source into the final list.
type Origin string

const (
	OriginCollection Origin = "collection"
	OriginFeedback   Origin = "feedback"
	OriginSearch     Origin = "search"
)

// Exclusion reasons surfaced in the excluded-videos report.
const (
	ReasonLikedInCollection    = "liked_in_collection"
	ReasonDislikedInCollection = "disliked_in_collection"
	ReasonBadFeedback          = "bad_feedback"
	ReasonGoodFeedback         = "good_feedback"
)

// ComposedSource is one entry of the final source list.
type ComposedSource struct {
	VideoId    string  `json:"video_id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Url        string  `json:"url"`
	SourceType string  `json:"source_type"`
	Score      float64 `json:"score"`
	Origin     Origin  `json:"origin"`
	Reference  string  `json:"source_reference"`
	Snippet    string  `json:"snippet"`
	Transcript string  `json:"-"`
}

// ExcludedVideo explains why a feedback-touched video is absent from the
// final sources. The report is complete: every excluded id that did not end
// up selected appears here, so the outcome is auditable.
type ExcludedVideo struct {
	VideoId   string `json:"video_id"`
	Reason    string `json:"reason"`
	Reference string `json:"source_reference"`
}

// Signals are the feedback-derived inclusion/exclusion sets computed before
// the fresh search runs.
type Signals struct {
	LikedFromCollections    map[string]string // video_id -> collection query
	DislikedFromCollections map[string]string
	LikedFromQueries        map[string]string // video_id -> originating query
	DislikedFromQueries     map[string]string

	// Insertion orders, so merge ranks are deterministic: collections by
	// similarity rank, queries by discovery order.
	likedCollectionOrder []string
	likedQueryOrder      []string
}

// ExcludeIds returns every feedback-touched video id, liked and disliked
// both. Liked ids are re-injected directly and disliked ones must never
// reappear, so searching for either again wastes the candidate budget.
func (s *Signals) ExcludeIds() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range []map[string]string{
		s.LikedFromCollections, s.DislikedFromCollections,
		s.LikedFromQueries, s.DislikedFromQueries,
	} {
		for id := range m {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (s *Signals) disliked(id string) bool {
	_, inCollection := s.DislikedFromCollections[id]
	_, inQuery := s.DislikedFromQueries[id]
	return inCollection || inQuery
}

// Result is the composed output: final sources in priority order plus the
// exclusion report.
type Result struct {
	Sources  []*ComposedSource
	Excluded []*ExcludedVideo
}

// Composer merges feedback-derived known-good sources with fresh retrieval
// output under priority and exclusion rules.
type Composer struct {
	videos      contract.VideoRepository
	transcripts contract.TranscriptRepository
	feedback    contract.FeedbackRepository
	log         logger.ILogger
}

func NewComposer(
	videos contract.VideoRepository,
	transcripts contract.TranscriptRepository,
	feedback contract.FeedbackRepository,
	log logger.ILogger,
) *Composer {
	return &Composer{
		videos:      videos,
		transcripts: transcripts,
		feedback:    feedback,
		log:         log,
	}
}

// BuildSignals turns similarity matches into liked/disliked sets. Collection
// votes are looked up through the feedback rows keyed on each collection's
// own query text; query votes come directly from the matched rows.
func (c *Composer) BuildSignals(ctx context.Context, queryMatches []*similarity.QueryMatch, collectionMatches []*similarity.CollectionMatch) *Signals {
	s := &Signals{
		LikedFromCollections:    make(map[string]string),
		DislikedFromCollections: make(map[string]string),
		LikedFromQueries:        make(map[string]string),
		DislikedFromQueries:     make(map[string]string),
	}

	for _, cm := range collectionMatches {
		rows, err := c.feedback.FindByQuery(ctx, cm.Collection.Query)
		if err != nil {
			c.log.Warn("compose", "feedback lookup for collection failed", map[string]interface{}{
				"collection_query": cm.Collection.Query,
				"error":            err.Error(),
			})
			continue
		}
		for _, row := range rows {
			switch row.Sentiment {
			case "good":
				if _, dup := s.LikedFromCollections[row.VideoId]; !dup {
					s.LikedFromCollections[row.VideoId] = cm.Collection.Query
					s.likedCollectionOrder = append(s.likedCollectionOrder, row.VideoId)
				}
			case "bad":
				if _, dup := s.DislikedFromCollections[row.VideoId]; !dup {
					s.DislikedFromCollections[row.VideoId] = cm.Collection.Query
				}
			}
		}
	}

	for _, qm := range queryMatches {
		for _, row := range qm.Feedback {
			switch row.Sentiment {
			case "good":
				if _, dup := s.LikedFromQueries[row.VideoId]; !dup {
					s.LikedFromQueries[row.VideoId] = qm.Query
					s.likedQueryOrder = append(s.likedQueryOrder, row.VideoId)
				}
			case "bad":
				if _, dup := s.DislikedFromQueries[row.VideoId]; !dup {
					s.DislikedFromQueries[row.VideoId] = qm.Query
				}
			}
		}
	}

	return s
}

// Merge assembles the final list: collection-liked sources first, then
// feedback-liked, then fresh results, deduplicated first-wins and truncated
// to kFinal, plus the excluded report covering every unselected exclude id.
func (c *Composer) Merge(ctx context.Context, query string, signals *Signals, fresh []*retrieval.Source, kFinal int) (*Result, error) {
	var merged []*ComposedSource
	placed := make(map[string]bool)

	appendSource := func(s *ComposedSource) {
		if !placed[s.VideoId] {
			placed[s.VideoId] = true
			merged = append(merged, s)
		}
	}

	for _, videoId := range signals.likedCollectionOrder {
		if signals.disliked(videoId) {
			continue
		}
		source, err := c.hydrateLiked(ctx, query, videoId, OriginCollection, signals.LikedFromCollections[videoId])
		if err != nil {
			return nil, err
		}
		if source != nil {
			appendSource(source)
		}
	}

	for _, videoId := range signals.likedQueryOrder {
		if signals.disliked(videoId) {
			continue
		}
		source, err := c.hydrateLiked(ctx, query, videoId, OriginFeedback, "similar_query")
		if err != nil {
			return nil, err
		}
		if source != nil {
			appendSource(source)
		}
	}

	for _, f := range fresh {
		appendSource(&ComposedSource{
			VideoId:    f.VideoId,
			Title:      f.Title,
			Author:     f.Author,
			Url:        f.Url,
			SourceType: f.SourceType,
			Score:      f.Score,
			Origin:     OriginSearch,
			Reference:  "search",
			Snippet:    f.Snippet,
			Transcript: f.Transcript,
		})
	}

	if kFinal > 0 && len(merged) > kFinal {
		for _, dropped := range merged[kFinal:] {
			placed[dropped.VideoId] = false
		}
		merged = merged[:kFinal]
	}

	var excluded []*ExcludedVideo
	for _, id := range signals.ExcludeIds() {
		if placed[id] {
			continue
		}
		excluded = append(excluded, c.excludedEntry(signals, id))
	}

	return &Result{Sources: merged, Excluded: excluded}, nil
}

// excludedEntry picks the dominant reason for an unselected exclude id.
// Dislikes outrank likes; collections outrank loose feedback.
func (c *Composer) excludedEntry(signals *Signals, videoId string) *ExcludedVideo {
	if ref, ok := signals.DislikedFromCollections[videoId]; ok {
		return &ExcludedVideo{VideoId: videoId, Reason: ReasonDislikedInCollection, Reference: ref}
	}
	if ref, ok := signals.DislikedFromQueries[videoId]; ok {
		return &ExcludedVideo{VideoId: videoId, Reason: ReasonBadFeedback, Reference: ref}
	}
	if ref, ok := signals.LikedFromCollections[videoId]; ok {
		return &ExcludedVideo{VideoId: videoId, Reason: ReasonLikedInCollection, Reference: ref}
	}
	ref := signals.LikedFromQueries[videoId]
	return &ExcludedVideo{VideoId: videoId, Reason: ReasonGoodFeedback, Reference: ref}
}

// hydrateLiked fetches the document behind a liked id. Dangling ids (video
// or transcript since deleted) contribute nothing.
func (c *Composer) hydrateLiked(ctx context.Context, query, videoId string, origin Origin, reference string) (*ComposedSource, error) {
	videos, err := c.videos.FindByIds(ctx, []string{videoId})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(videos) == 0 {
		return nil, nil
	}
	video := videos[0]

	transcriptText := ""
	transcript, err := c.transcripts.FindOne(ctx, videoId)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if transcript != nil {
		transcriptText = transcript.Text
	}

	return &ComposedSource{
		VideoId:    video.Id,
		Title:      video.DisplayTitle(),
		Author:     video.AuthorName(),
		Url:        video.Url,
		SourceType: video.Source,
		Score:      1.0, // trusted: a human already vouched for it
		Origin:     origin,
		Reference:  reference,
		Snippet:    retrieval.Snippet(transcriptText, query, 200),
		Transcript: transcriptText,
	}, nil
}
