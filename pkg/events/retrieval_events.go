package events

import "time"

// Event type codes carried on the bus. Downstream analytics keys on these.
const (
	TypeFeedbackSaved       = "FEEDBACK_SAVED"
	TypeFeedbackRemoved     = "FEEDBACK_REMOVED"
	TypeCollectionSaved     = "COLLECTION_SAVED"
	TypeCollectionDeleted   = "COLLECTION_DELETED"
	TypeEmbeddingBackfilled = "EMBEDDING_BACKFILLED"
)

func NewFeedbackSaved(query, videoId, sentiment string) Event {
	return BaseEvent{
		Type: TypeFeedbackSaved,
		Data: map[string]interface{}{
			"query":     query,
			"video_id":  videoId,
			"sentiment": sentiment,
		},
		OccurredAt: time.Now(),
	}
}

func NewFeedbackRemoved(query, videoId string) Event {
	return BaseEvent{
		Type: TypeFeedbackRemoved,
		Data: map[string]interface{}{
			"query":    query,
			"video_id": videoId,
		},
		OccurredAt: time.Now(),
	}
}

func NewCollectionSaved(collectionId, query string, videoCount int) Event {
	return BaseEvent{
		Type: TypeCollectionSaved,
		Data: map[string]interface{}{
			"collection_id": collectionId,
			"query":         query,
			"video_count":   videoCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewCollectionDeleted(collectionId string) Event {
	return BaseEvent{
		Type: TypeCollectionDeleted,
		Data: map[string]interface{}{
			"collection_id": collectionId,
		},
		OccurredAt: time.Now(),
	}
}

func NewEmbeddingBackfilled(videoId string, dimensions int) Event {
	return BaseEvent{
		Type: TypeEmbeddingBackfilled,
		Data: map[string]interface{}{
			"video_id":   videoId,
			"dimensions": dimensions,
		},
		OccurredAt: time.Now(),
	}
}
