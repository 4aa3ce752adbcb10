package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/dukex/postgate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string) models.HistoryEntry {
	url := "https://www.linkedin.com/feed/update/" + id + "/"

	return models.HistoryEntry{
		ID:        id,
		Text:      "post " + id,
		Timestamp: time.Now(),
		URL:       &url,
		Status:    models.HistoryStatusSuccess,
	}
}

func TestLedger_AppendMostRecentFirst(t *testing.T) {
	t.Parallel()

	l := New()
	assert.Empty(t, l.Entries())

	l.Append(entry("1"))
	l.Append(entry("2"))
	l.Append(entry("3"))

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "3", entries[0].ID)
	assert.Equal(t, "2", entries[1].ID)
	assert.Equal(t, "1", entries[2].ID)
	assert.Equal(t, 3, l.Len())
}

func TestLedger_EntriesAreCopies(t *testing.T) {
	t.Parallel()

	l := New()
	l.Append(entry("1"))

	entries := l.Entries()
	entries[0].Text = "mutated"
	*entries[0].URL = "mutated"

	fresh := l.Entries()
	assert.Equal(t, "post 1", fresh[0].Text)
	assert.Equal(t, "https://www.linkedin.com/feed/update/1/", *fresh[0].URL)
}

func TestLedger_AppendCopiesURL(t *testing.T) {
	t.Parallel()

	l := New()
	appended := entry("1")
	l.Append(appended)

	*appended.URL = "https://example.com/other/"

	assert.Equal(t, "https://www.linkedin.com/feed/update/1/", *l.Entries()[0].URL)
}

func TestLedger_ConcurrentAppend(t *testing.T) {
	t.Parallel()

	l := New()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			l.Append(entry("x"))
			_ = l.Entries()
		}()
	}

	wg.Wait()
	assert.Equal(t, 50, l.Len())
}
