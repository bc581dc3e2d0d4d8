package mapper

import (
	"ai-videosearch-be/internal/entity"
	"ai-videosearch-be/internal/model"

	"gorm.io/datatypes"
)

type VideoMapper struct{}

func NewVideoMapper() *VideoMapper {
	return &VideoMapper{}
}

func (m *VideoMapper) ToEntity(v *model.Video) *entity.Video {
	if v == nil {
		return nil
	}

	return &entity.Video{
		Id:          v.Id,
		Source:      v.Source,
		Url:         v.Url,
		Title:       v.Title,
		Description: v.Description,
		ClipCount:   v.ClipCount,
		Author:      v.Author,
		DurationSec: v.DurationSec,
		Lang:        v.Lang,
		MediaPath:   v.MediaPath,
		Hashtags:    []string(v.Hashtags),
		Metadata:    map[string]interface{}(v.MetadataJson),
		CreatedAt:   v.CreatedAt,
	}
}

func (m *VideoMapper) ToModel(v *entity.Video) *model.Video {
	if v == nil {
		return nil
	}

	return &model.Video{
		Id:           v.Id,
		Source:       v.Source,
		Url:          v.Url,
		Title:        v.Title,
		Description:  v.Description,
		ClipCount:    v.ClipCount,
		Author:       v.Author,
		DurationSec:  v.DurationSec,
		Lang:         v.Lang,
		MediaPath:    v.MediaPath,
		Hashtags:     datatypes.NewJSONSlice(v.Hashtags),
		MetadataJson: datatypes.JSONMap(v.Metadata),
		CreatedAt:    v.CreatedAt,
	}
}

func (m *VideoMapper) ToEntities(videos []*model.Video) []*entity.Video {
	entities := make([]*entity.Video, len(videos))
	for i, v := range videos {
		entities[i] = m.ToEntity(v)
	}
	return entities
}
