package rerank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	cases := map[string][]float64{
		"mixed signs":  {-2.5, 0.0, 1.7, 4.2},
		"all negative": {-9.1, -3.3, -0.2},
		"identical":    {0.5, 0.5, 0.5},
		"large logits": {500, 501, 502}, // must not overflow
	}

	for name, scores := range cases {
		t.Run(name, func(t *testing.T) {
			probs := Softmax(scores)
			require.Len(t, probs, len(scores))

			sum := 0.0
			for _, p := range probs {
				assert.Greater(t, p, 0.0)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestSoftmaxPreservesOrdering(t *testing.T) {
	probs := Softmax([]float64{0.1, 3.0, -1.2, 2.9})

	assert.Greater(t, probs[1], probs[3])
	assert.Greater(t, probs[3], probs[0])
	assert.Greater(t, probs[0], probs[2])
}

func TestSoftmaxSingleElement(t *testing.T) {
	probs := Softmax([]float64{-42.0})
	require.Len(t, probs, 1)
	assert.InDelta(t, 1.0, probs[0], 1e-12)
}

func TestSoftmaxEmpty(t *testing.T) {
	assert.Empty(t, Softmax(nil))
}

func TestHTTPRerankerScoresByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Answer out of order on purpose; the client must map by index.
		results := []rerankResult{}
		for i := len(req.Texts) - 1; i >= 0; i-- {
			results = append(results, rerankResult{Index: i, Score: float64(i)})
		}
		json.NewEncoder(w).Encode(results)
	}))
	defer server.Close()

	r := NewHTTPReranker(server.URL, "test-model")
	scored, err := r.Rerank(context.Background(), "test query", []Candidate{
		{Id: "a", Text: "first"},
		{Id: "b", Text: "second"},
		{Id: "c", Text: "third"},
	})
	require.NoError(t, err)
	require.Len(t, scored, 3)

	assert.Equal(t, "a", scored[0].Id)
	assert.InDelta(t, 0.0, scored[0].Score, 1e-12)
	assert.InDelta(t, 1.0, scored[1].Score, 1e-12)
	assert.InDelta(t, 2.0, scored[2].Score, 1e-12)
}

func TestHTTPRerankerMemoizesScores(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		results := make([]rerankResult, len(req.Texts))
		for i := range req.Texts {
			results[i] = rerankResult{Index: i, Score: 0.9}
		}
		json.NewEncoder(w).Encode(results)
	}))
	defer server.Close()

	r := NewHTTPReranker(server.URL, "test-model")
	candidates := []Candidate{{Id: "a", Text: "doc"}}

	_, err := r.Rerank(context.Background(), "same query", candidates)
	require.NoError(t, err)
	_, err = r.Rerank(context.Background(), "same query", candidates)
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
}

func TestHTTPRerankerUnavailableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	server.Close() // connection refused

	r := NewHTTPReranker(server.URL, "test-model")
	_, err := r.Rerank(context.Background(), "query", []Candidate{{Id: "a", Text: "doc"}})
	assert.Error(t, err)
}

func TestHTTPRerankerEmptyCandidates(t *testing.T) {
	r := NewHTTPReranker("http://localhost:1", "test-model")
	scored, err := r.Rerank(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Empty(t, scored)
}
