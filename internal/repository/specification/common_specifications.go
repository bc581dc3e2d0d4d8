package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// ByVideoId filters by a platform video id.
type ByVideoId struct {
	Id string
}

func (s ByVideoId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.Id)
}

// ByVideoIds filters by a list of video ids.
type ByVideoIds struct {
	Ids []string
}

func (s ByVideoIds) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.Ids)
}

// ByQuery filters feedback-like tables on exact query text.
type ByQuery struct {
	Query string
}

func (s ByQuery) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("query = ?", s.Query)
}

// BySource filters videos by ingestion source (e.g. "youtube", "tiktok").
type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}
