package entity

import "time"

type Video struct {
	Id          string
	Source      string
	Url         string
	Title       *string
	Description *string
	ClipCount   int
	Author      *string
	DurationSec *int
	Lang        string
	MediaPath   *string
	Hashtags    []string
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}

// DisplayTitle returns the title or a placeholder for untitled videos.
func (v *Video) DisplayTitle() string {
	if v.Title != nil && *v.Title != "" {
		return *v.Title
	}
	return "Untitled"
}

func (v *Video) AuthorName() string {
	if v.Author != nil {
		return *v.Author
	}
	return ""
}
