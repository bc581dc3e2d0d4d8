package rerank

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ai-videosearch-be/internal/pkg/apperrors"
)

// Candidate is a single document offered to the cross-encoder.
type Candidate struct {
	Id   string
	Text string
}

// Scored pairs a candidate id with its relevance score.
type Scored struct {
	Id    string
	Score float64
}

// Reranker scores candidate documents against a query with a
// cross-encoder model.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []Candidate) ([]Scored, error)
}

// HTTPReranker talks to a text-embeddings-inference style /rerank
// endpoint. Query-document scores are memoized in-process so repeated
// searches over a stable corpus skip the model round trip.
type HTTPReranker struct {
	baseURL string
	model   string
	client  *http.Client
	scores  *gocache.Cache
}

var _ Reranker = &HTTPReranker{}

func NewHTTPReranker(baseURL, model string) *HTTPReranker {
	return &HTTPReranker{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		scores:  gocache.New(15*time.Minute, 30*time.Minute),
	}
}

type rerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type rerankResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

func (r *HTTPReranker) scoreKey(query, text string) string {
	h := sha256.Sum256([]byte(r.model + "\x00" + query + "\x00" + text))
	return hex.EncodeToString(h[:])
}

func (r *HTTPReranker) Rerank(ctx context.Context, query string, candidates []Candidate) ([]Scored, error) {
	if len(candidates) == 0 {
		return []Scored{}, nil
	}

	scored := make([]Scored, len(candidates))
	var missing []int
	for i, c := range candidates {
		if cached, found := r.scores.Get(r.scoreKey(query, c.Text)); found {
			scored[i] = Scored{Id: c.Id, Score: cached.(float64)}
			continue
		}
		scored[i] = Scored{Id: c.Id}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return scored, nil
	}

	texts := make([]string, len(missing))
	for j, i := range missing {
		texts[j] = candidates[i].Text
	}

	payload, err := json.Marshal(rerankRequest{Query: query, Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/rerank", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, apperrors.ModelUnavailable(r.model, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperrors.ModelUnavailable(r.model, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, apperrors.ModelUnavailable(r.model, fmt.Errorf("status %d: %s", res.StatusCode, string(body)))
	}

	var results []rerankResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, apperrors.ModelUnavailable(r.model, fmt.Errorf("decode rerank response: %w", err))
	}
	if len(results) != len(missing) {
		return nil, apperrors.ModelUnavailable(r.model, fmt.Errorf("expected %d scores, got %d", len(missing), len(results)))
	}

	for _, result := range results {
		if result.Index < 0 || result.Index >= len(missing) {
			return nil, apperrors.ModelUnavailable(r.model, fmt.Errorf("rerank index %d out of range", result.Index))
		}
		i := missing[result.Index]
		scored[i].Score = result.Score
		r.scores.SetDefault(r.scoreKey(query, candidates[i].Text), result.Score)
	}

	return scored, nil
}

// Softmax normalizes raw cross-encoder scores into a probability
// distribution over the candidate set. Subtracting the max keeps the
// exponentials stable for large logits.
func Softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return []float64{}
	}

	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
