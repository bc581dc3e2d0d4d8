package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/internal/repository/specification"
)

// memVideoLookup backs Show: FindOne resolves against the map and returns
// (nil, nil) on a miss, like the GORM implementation.
type memVideoLookup struct {
	memVideoRepo
}

func (m *memVideoLookup) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Video, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByVideoId); ok {
			return m.rows[byId.Id], nil
		}
	}
	return nil, nil
}

// memTranscriptRepo resolves transcripts by video id, (nil, nil) on a miss.
type memTranscriptRepo struct {
	contract.TranscriptRepository

	rows map[string]*entity.Transcript
}

func (m *memTranscriptRepo) FindOne(ctx context.Context, videoId string) (*entity.Transcript, error) {
	return m.rows[videoId], nil
}

func newTestVideoService(videos *memVideoLookup, transcripts *memTranscriptRepo) IVideoService {
	factory := &fakeUowFactory{uow: &fakeUow{videos: videos, transcripts: transcripts}}
	return NewVideoService(factory, nil, logger.NewNopLogger())
}

func TestVideoShowUnknownIdReturnsNotFound(t *testing.T) {
	svc := newTestVideoService(
		&memVideoLookup{memVideoRepo{rows: map[string]*entity.Video{}}},
		&memTranscriptRepo{rows: map[string]*entity.Transcript{}},
	)

	res, err := svc.Show(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, res)
}

func TestVideoShowReportsTranscriptPresence(t *testing.T) {
	videos := &memVideoLookup{memVideoRepo{rows: map[string]*entity.Video{
		"v1": {Id: "v1", Url: "u1"},
		"v2": {Id: "v2", Url: "u2"},
	}}}
	transcripts := &memTranscriptRepo{rows: map[string]*entity.Transcript{
		"v1": {VideoId: "v1", Text: "some transcript"},
	}}
	svc := newTestVideoService(videos, transcripts)

	withTranscript, err := svc.Show(context.Background(), "v1")
	require.NoError(t, err)
	assert.True(t, withTranscript.HasTranscript)

	withoutTranscript, err := svc.Show(context.Background(), "v2")
	require.NoError(t, err)
	assert.False(t, withoutTranscript.HasTranscript)
}
