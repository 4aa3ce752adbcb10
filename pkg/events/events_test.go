package events

import (
	"encoding/json"
	"testing"

	"github.com/dukex/postgate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	event := NewBaseEvent(DraftRejectedEvent, models.DraftStatusRejected)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, DraftRejectedEvent, event.Type)
	assert.Equal(t, models.DraftStatusRejected, event.Status)
	assert.False(t, event.Timestamp.IsZero())
	assert.NotNil(t, event.Metadata)
}

func TestDraftApproved_JSONSerialization(t *testing.T) {
	original := DraftApproved{
		BaseEvent: NewBaseEvent(DraftApprovedEvent, models.DraftStatusApproved),
		HistoryID: "entry-1",
		PostID:    "urn:li:share:7",
		URL:       "https://www.linkedin.com/feed/update/urn:li:share:7/",
	}

	jsonData, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"type":"draft.approved"`)
	assert.Contains(t, string(jsonData), `"status":"approved"`)
	assert.Contains(t, string(jsonData), `"post_id":"urn:li:share:7"`)

	var deserialized DraftApproved

	err = json.Unmarshal(jsonData, &deserialized)
	require.NoError(t, err)
	assert.Equal(t, original.ID, deserialized.ID)
	assert.Equal(t, original.URL, deserialized.URL)
	assert.Equal(t, DraftApprovedEvent, deserialized.GetType())
}

func TestNewEvent(t *testing.T) {
	for _, eventType := range AllEventTypes {
		t.Run(string(eventType), func(t *testing.T) {
			event, ok := NewEvent(eventType)
			require.True(t, ok)

			typed, ok := event.(interface{ GetType() EventType })
			require.True(t, ok)
			assert.Equal(t, eventType, typed.GetType())
		})
	}

	_, ok := NewEvent("workflow.triggered")
	assert.False(t, ok)
}
