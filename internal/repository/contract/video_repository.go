package contract

import (
	"context"

	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/repository/specification"
)

type VideoRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Video, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Video, error)
	FindByIds(ctx context.Context, ids []string) ([]*entity.Video, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
