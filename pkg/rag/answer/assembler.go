package answer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/pkg/llm"
	"ai-videosearch-be/pkg/rag/compose"
)

// maxTranscriptChars bounds how much of each transcript goes into the
// prompt so a handful of long videos cannot blow the context window.
const maxTranscriptChars = 3000

// Citation maps a bracketed marker in the answer text to the source it
// references, so the presentation layer can make markers clickable.
type Citation struct {
	Marker  int    `json:"marker"`
	VideoId string `json:"video_id"`
}

// Assembled is a generated answer with its citation mapping.
type Assembled struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Assembler turns composed sources into a grounded answer with numbered
// inline citations.
type Assembler struct {
	provider llm.LLMProvider
	log      logger.ILogger
}

func NewAssembler(provider llm.LLMProvider, log logger.ILogger) *Assembler {
	return &Assembler{provider: provider, log: log}
}

var citationMarker = regexp.MustCompile(`\[(\d+)\]`)

// Generate builds the prompt from the sources in their final order and
// invokes the model. An error or empty completion propagates as a
// generation failure rather than a partial answer.
func (a *Assembler) Generate(ctx context.Context, query string, sources []*compose.ComposedSource) (*Assembled, error) {
	prompt := BuildPrompt(query, sources)

	text, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, apperrors.GenerationFailure(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.GenerationFailure(fmt.Errorf("model returned empty answer"))
	}

	a.log.Debug("answer", "answer generated", map[string]interface{}{
		"query": query,
		"chars": len(text),
	})

	return &Assembled{
		Answer:    text,
		Citations: ExtractCitations(text, sources),
	}, nil
}

// BuildPrompt lays out the question, the numbered source blocks, and the
// grounding instructions.
func BuildPrompt(query string, sources []*compose.ComposedSource) string {
	var context strings.Builder
	for i, source := range sources {
		transcript := source.Transcript
		if transcript == "" {
			transcript = source.Snippet
		}
		if len(transcript) > maxTranscriptChars {
			transcript = transcript[:maxTranscriptChars] + "..."
		}
		header := source.Title
		if source.Author != "" {
			header += " by " + source.Author
		}
		context.WriteString(fmt.Sprintf("[Source %d] %s\n%s\n", i+1, header, transcript))
		if i < len(sources)-1 {
			context.WriteString("\n")
		}
	}

	return fmt.Sprintf(`You are a helpful assistant that answers questions based on video transcripts.

Question: %s

Context (from video transcripts):
%s

Instructions:
- Answer the question using ONLY information from the provided sources
- Cite sources using inline references like [1], [2], etc.
- Be concise but informative
- If the sources don't contain enough information, say so
- Use natural language and proper formatting

Answer:`, query, context.String())
}

// ExtractCitations collects the distinct in-range [n] markers present in
// the answer, in first-appearance order. Out-of-range markers are dropped;
// the assembler maps citations, it does not verify the model used them
// correctly.
func ExtractCitations(answer string, sources []*compose.ComposedSource) []Citation {
	seen := make(map[int]bool)
	var citations []Citation
	for _, match := range citationMarker.FindAllStringSubmatch(answer, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 || n > len(sources) || seen[n] {
			continue
		}
		seen[n] = true
		citations = append(citations, Citation{
			Marker:  n,
			VideoId: sources[n-1].VideoId,
		})
	}
	return citations
}
