package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the retrieval pipeline. Handlers map these to HTTP
// statuses in serverutils; services wrap them with %w and extra context.
var (
	// ErrModelUnavailable: the embedding or reranking model could not be
	// reached/loaded. Hard failure, never silently degraded to zero vectors.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrGenerationFailure: the text-generation call failed or returned an
	// empty answer. Sources are still usable by the caller.
	ErrGenerationFailure = errors.New("answer generation failed")

	// ErrFeedbackConflict: a concurrent write violated the (query, video_id)
	// uniqueness constraint despite the atomic upsert. Retried once before
	// being surfaced.
	ErrFeedbackConflict = errors.New("feedback write conflict")

	// ErrNotFound: a referenced video or collection no longer exists.
	ErrNotFound = errors.New("not found")
)

func ModelUnavailable(model string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrModelUnavailable, model, cause)
}

func GenerationFailure(cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: empty response", ErrGenerationFailure)
	}
	return fmt.Errorf("%w: %v", ErrGenerationFailure, cause)
}

func NotFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}
