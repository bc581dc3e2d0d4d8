package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/pkg/llm"
	"ai-videosearch-be/pkg/rag/compose"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func testSources() []*compose.ComposedSource {
	return []*compose.ComposedSource{
		{VideoId: "v1", Title: "First Video", Author: "Alice", Transcript: "first transcript"},
		{VideoId: "v2", Title: "Second Video", Author: "Bob", Transcript: "second transcript"},
		{VideoId: "v3", Title: "Third Video", Snippet: "only a snippet"},
	}
}

func TestBuildPromptLayout(t *testing.T) {
	prompt := BuildPrompt("how to deadlift", testSources())

	assert.Contains(t, prompt, "Question: how to deadlift")
	assert.Contains(t, prompt, "[Source 1] First Video by Alice\nfirst transcript")
	assert.Contains(t, prompt, "[Source 2] Second Video by Bob\nsecond transcript")
	// No transcript: the snippet stands in.
	assert.Contains(t, prompt, "[Source 3] Third Video\nonly a snippet")
	assert.Contains(t, prompt, "Cite sources using inline references like [1], [2], etc.")

	// Source blocks appear in final-list order.
	assert.Less(t, strings.Index(prompt, "[Source 1]"), strings.Index(prompt, "[Source 2]"))
	assert.Less(t, strings.Index(prompt, "[Source 2]"), strings.Index(prompt, "[Source 3]"))
}

func TestBuildPromptTruncatesLongTranscripts(t *testing.T) {
	long := strings.Repeat("word ", 2000) // 10000 chars
	sources := []*compose.ComposedSource{{VideoId: "v1", Title: "Long", Transcript: long}}

	prompt := BuildPrompt("query", sources)

	assert.NotContains(t, prompt, long)
	assert.Contains(t, prompt, long[:maxTranscriptChars]+"...")
}

func TestExtractCitations(t *testing.T) {
	text := "Deadlifts need a neutral spine [1]. Warm up first [3], then pull [1]."

	citations := ExtractCitations(text, testSources())

	require.Len(t, citations, 2)
	assert.Equal(t, Citation{Marker: 1, VideoId: "v1"}, citations[0])
	assert.Equal(t, Citation{Marker: 3, VideoId: "v3"}, citations[1])
}

func TestExtractCitationsDropsOutOfRange(t *testing.T) {
	text := "Claim [0], claim [4], claim [2]."

	citations := ExtractCitations(text, testSources())

	require.Len(t, citations, 1)
	assert.Equal(t, 2, citations[0].Marker)
}

func TestGenerateReturnsAnswerWithCitations(t *testing.T) {
	a := NewAssembler(&fakeLLM{response: "Use proper form [1] and rest well [2]."}, logger.NewNopLogger())

	res, err := a.Generate(context.Background(), "how to train", testSources())
	require.NoError(t, err)

	assert.Equal(t, "Use proper form [1] and rest well [2].", res.Answer)
	require.Len(t, res.Citations, 2)
	assert.Equal(t, "v1", res.Citations[0].VideoId)
	assert.Equal(t, "v2", res.Citations[1].VideoId)
}

func TestGenerateEmptyAnswerIsGenerationFailure(t *testing.T) {
	a := NewAssembler(&fakeLLM{response: "   "}, logger.NewNopLogger())

	_, err := a.Generate(context.Background(), "query", testSources())
	assert.ErrorIs(t, err, apperrors.ErrGenerationFailure)
}

func TestGenerateProviderErrorIsGenerationFailure(t *testing.T) {
	a := NewAssembler(&fakeLLM{err: errors.New("model offline")}, logger.NewNopLogger())

	_, err := a.Generate(context.Background(), "query", testSources())
	assert.ErrorIs(t, err, apperrors.ErrGenerationFailure)
}
