// Package ledger keeps the in-memory record of publish attempts for a session.
package ledger

import (
	"sync"

	"github.com/dukex/postgate/pkg/models"
)

// Ledger is an append-only list of history entries, most recent first.
type Ledger struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
}

func New() *Ledger {
	return &Ledger{}
}

// Append records a copy of entry ahead of every existing entry.
func (l *Ledger) Append(entry models.HistoryEntry) {
	entry = clone(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]models.HistoryEntry{entry}, l.entries...)
}

// Entries returns a copy of the ledger, most recent first.
func (l *Ledger) Entries() []models.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.HistoryEntry, len(l.entries))
	for i, entry := range l.entries {
		out[i] = clone(entry)
	}

	return out
}

func clone(entry models.HistoryEntry) models.HistoryEntry {
	if entry.URL != nil {
		url := *entry.URL
		entry.URL = &url
	}

	return entry
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}
