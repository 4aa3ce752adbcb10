// Package models defines the core domain models for reviewing and publishing posts.
package models

import "slices"

// DraftStatus represents the review state of the live draft.
type DraftStatus string

const (
	DraftStatusPending  DraftStatus = "pending"  // Awaiting review, editable
	DraftStatusApproved DraftStatus = "approved" // Published upstream
	DraftStatusRejected DraftStatus = "rejected" // Discarded locally, never published
)

// DraftTransitions lists the statuses each status may move to.
var DraftTransitions = map[DraftStatus][]DraftStatus{
	DraftStatusPending:  {DraftStatusApproved, DraftStatusRejected},
	DraftStatusApproved: {DraftStatusPending},
	DraftStatusRejected: {DraftStatusPending},
}

// CanTransitionTo reports whether moving from s to target is allowed.
func (s DraftStatus) CanTransitionTo(target DraftStatus) bool {
	return slices.Contains(DraftTransitions[s], target)
}

// IsValid reports whether s is a known status.
func (s DraftStatus) IsValid() bool {
	_, ok := DraftTransitions[s]

	return ok
}

// Draft is the single in-progress post text plus its approval status.
type Draft struct {
	Text   string      `json:"text"`
	Status DraftStatus `json:"status"`
}

// NewDraft returns a pending draft holding text.
func NewDraft(text string) Draft {
	return Draft{
		Text:   text,
		Status: DraftStatusPending,
	}
}
