package models

// PublishOutcome is the result of submitting a post to the publishing API.
type PublishOutcome struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ExternalPostID string `json:"postId,omitempty"`
	ExternalURL    string `json:"postUrl,omitempty"`
}
