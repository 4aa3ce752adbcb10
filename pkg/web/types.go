package web

import (
	"github.com/dukex/postgate/pkg/models"
	"github.com/dukex/postgate/pkg/services"
)

// GenerateRequest represents the request body for generating a draft.
type GenerateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type GenerateResponse struct {
	Success       bool   `json:"success"`
	GeneratedPost string `json:"generatedPost"`
	Note          string `json:"note,omitempty"`
	Fallback      bool   `json:"fallback"`
}

// PublishRequest represents the request body for publishing text directly.
type PublishRequest struct {
	Text string `json:"text" validate:"required"`
}

type PublishResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PostID  string `json:"postId,omitempty"`
	PostURL string `json:"postUrl,omitempty"`
}

// ApproveResponse is the publish result plus the session it left behind.
type ApproveResponse struct {
	PublishResponse

	Session services.Session `json:"session"`
}

// EditBufferRequest carries in-progress edits. The buffer may be empty.
type EditBufferRequest struct {
	Text string `json:"text"`
}

// SaveEditRequest represents the request body for saving an edit.
type SaveEditRequest struct {
	Text string `json:"text" validate:"required"`
}

type HistoryResponse struct {
	Entries []models.HistoryEntry `json:"entries"`
}

type EventsResponse struct {
	Events []FeedEvent `json:"events"`
	Last   uint64      `json:"last"`
}

func newPublishResponse(outcome *models.PublishOutcome) PublishResponse {
	return PublishResponse{
		Success: outcome.Success,
		Message: outcome.Message,
		PostID:  outcome.ExternalPostID,
		PostURL: outcome.ExternalURL,
	}
}
