package dto

type SaveFeedbackRequest struct {
	Query     string `json:"query" validate:"required"`
	VideoId   string `json:"video_id" validate:"required"`
	Sentiment string `json:"sentiment" validate:"required,oneof=good bad"`
}

type SaveFeedbackResponse struct {
	Query     string `json:"query"`
	VideoId   string `json:"video_id"`
	Sentiment string `json:"sentiment"` // "" when the vote was toggled off
	Action    string `json:"action"`    // saved | removed
}

type DeleteFeedbackRequest struct {
	Query   string `json:"query" validate:"required"`
	VideoId string `json:"video_id" validate:"required"`
}

type FeedbackItem struct {
	VideoId   string `json:"video_id"`
	Sentiment string `json:"sentiment"`
}

type GetFeedbackResponse struct {
	Query    string         `json:"query"`
	Feedback []FeedbackItem `json:"feedback"`
}
