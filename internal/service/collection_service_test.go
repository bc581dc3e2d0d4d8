package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/pkg/apperrors"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/contract"
	"ai-videosearch-be/pkg/events"
)

// memCollectionRepo keeps saved collections in a map; FindOne on a missing
// id returns (nil, nil), matching the GORM implementation.
type memCollectionRepo struct {
	contract.CollectionRepository

	rows map[uuid.UUID]*entity.Collection
}

func newMemCollectionRepo() *memCollectionRepo {
	return &memCollectionRepo{rows: make(map[uuid.UUID]*entity.Collection)}
}

func (m *memCollectionRepo) Create(ctx context.Context, c *entity.Collection) error {
	m.rows[c.Id] = c
	return nil
}

func (m *memCollectionRepo) FindOne(ctx context.Context, id uuid.UUID) (*entity.Collection, error) {
	return m.rows[id], nil
}

func (m *memCollectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

type memVideoRepo struct {
	contract.VideoRepository

	rows map[string]*entity.Video
}

func (m *memVideoRepo) FindByIds(ctx context.Context, ids []string) ([]*entity.Video, error) {
	var out []*entity.Video
	for _, id := range ids {
		if v, ok := m.rows[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func newTestCollectionService(repo *memCollectionRepo, videos *memVideoRepo) ICollectionService {
	factory := &fakeUowFactory{uow: &fakeUow{collections: repo, videos: videos}}
	return NewCollectionService(factory, stubEmbedder{}, events.NoopPublisher{}, logger.NewNopLogger())
}

func TestCollectionShowUnknownIdReturnsNotFound(t *testing.T) {
	svc := newTestCollectionService(newMemCollectionRepo(), &memVideoRepo{})

	res, err := svc.Show(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, res)
}

func TestCollectionShowHydratesStoredOrder(t *testing.T) {
	title := func(s string) *string { return &s }
	repo := newMemCollectionRepo()
	collection := &entity.Collection{
		Id:        uuid.New(),
		Query:     "mobility drills",
		VideoIds:  []string{"v2", "gone", "v1"},
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), collection))
	videos := &memVideoRepo{rows: map[string]*entity.Video{
		"v1": {Id: "v1", Title: title("First"), Url: "u1"},
		"v2": {Id: "v2", Title: title("Second"), Url: "u2"},
	}}
	svc := newTestCollectionService(repo, videos)

	res, err := svc.Show(context.Background(), collection.Id)

	require.NoError(t, err)
	require.Len(t, res.Videos, 2)
	// Stored order preserved, deleted id skipped.
	assert.Equal(t, "v2", res.Videos[0].VideoId)
	assert.Equal(t, "v1", res.Videos[1].VideoId)
}
