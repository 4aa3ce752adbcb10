package models

import "time"

// HistoryStatus is the outcome of a publish attempt.
type HistoryStatus string

const (
	HistoryStatusSuccess HistoryStatus = "success"
	HistoryStatusFailed  HistoryStatus = "failed"
)

// HistoryEntry records one publish attempt. Entries are never mutated once
// appended to a ledger.
type HistoryEntry struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
	URL       *string       `json:"url"`
	Status    HistoryStatus `json:"status"`
	Error     string        `json:"error,omitempty"`
}
