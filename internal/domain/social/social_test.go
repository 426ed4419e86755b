package social

import (
	"testing"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/stretchr/testify/assert"
)

func TestExclusions(t *testing.T) {
	conns := []Connection{
		{RequesterID: "me", AddresseeID: "friend", Status: ConnectionStatusAccepted},
		{RequesterID: "me", AddresseeID: "sent", Status: ConnectionStatusPending},
		{RequesterID: "received", AddresseeID: "me", Status: ConnectionStatusPending},
		{RequesterID: "me", AddresseeID: "declined", Status: ConnectionStatusRejected},
		{RequesterID: "x", AddresseeID: "y", Status: ConnectionStatusAccepted},
	}

	ex := Exclusions("me", conns)

	for _, id := range []mentorship.UserID{"me", "friend", "sent", "received"} {
		assert.True(t, ex.Contains(id), id)
	}
	for _, id := range []mentorship.UserID{"declined", "x", "y"} {
		assert.False(t, ex.Contains(id), id)
	}
}

func TestSuggestionList_SortIsDeterministic(t *testing.T) {
	l := SuggestionList{
		{UserID: "c", Score: 50},
		{UserID: "b", Score: 80},
		{UserID: "a", Score: 50},
		{UserID: "d", Score: 0},
	}
	l.Sort()

	ids := make([]mentorship.UserID, len(l))
	for i, s := range l {
		ids[i] = s.UserID
	}
	assert.Equal(t, []mentorship.UserID{"b", "a", "c", "d"}, ids)
	assert.Equal(t, 1, l[0].RankPosition)
	assert.Len(t, l.TopN(2), 2)
	assert.Len(t, l.TopN(10), 4)
}

func TestSuggestionReason(t *testing.T) {
	assert.Equal(t, "You share 3 interest(s) in common", SuggestionReason(3))
}
