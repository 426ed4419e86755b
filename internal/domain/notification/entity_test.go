package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMenteeAssigned(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n := NewMenteeAssigned("mentor-1", "mentee-7", "Dana K.", at)

	require.NoError(t, n.Validate())
	assert.Equal(t, "mentor-1", n.RecipientID)
	assert.Equal(t, NotificationTypeNewMentee, n.Type)
	assert.Equal(t, "New mentee assigned", n.Title)
	assert.Equal(t, "Dana K. was assigned as your mentee", n.Content)
	assert.Equal(t, "/mentorship/mentees", n.Link)
	assert.Equal(t, "mentee-7", n.ReferenceID)
	assert.Equal(t, ReferenceTypeUser, n.ReferenceType)
	assert.False(t, n.IsRead)
}

func TestNewMenteeAssigned_EmptyNameFallsBackToID(t *testing.T) {
	n := NewMenteeAssigned("mentor-1", "mentee-7", "  ", time.Now())
	assert.Equal(t, "mentee-7 was assigned as your mentee", n.Content)
}

func TestNotificationValidate(t *testing.T) {
	tests := []struct {
		name string
		n    Notification
	}{
		{"no recipient", Notification{Type: NotificationTypeNewMentee, Title: "t", Content: "c"}},
		{"unknown type", Notification{RecipientID: "u", Type: "rank_up", Title: "t", Content: "c"}},
		{"no content", Notification{RecipientID: "u", Type: NotificationTypeNewMentee, Title: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.n.Validate())
		})
	}
}
