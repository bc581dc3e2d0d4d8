package embedding

import "strings"

// Task types mirror the Gemini embedding API; providers that have no task
// concept ignore them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Dimensions is fixed by the vector(384) columns in the schema. Every
// provider must produce vectors of this size.
const Dimensions = 384

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// CombineTextForEmbedding merges a video description and transcript into the
// document text that gets embedded. Description first (concise context),
// then transcript, truncated so the model's token window is not blown.
func CombineTextForEmbedding(transcript, description string) string {
	const maxChars = 5000

	var parts []string
	if s := strings.TrimSpace(description); s != "" {
		parts = append(parts, "Caption: "+s)
	}
	if s := strings.TrimSpace(transcript); s != "" {
		parts = append(parts, "Transcript: "+s)
	}

	combined := strings.Join(parts, "\n\n")
	if len(combined) > maxChars {
		combined = combined[:maxChars] + "..."
	}
	return combined
}
