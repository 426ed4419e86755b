package mentorship

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchList_BestBreaksTiesByLowestID(t *testing.T) {
	l := MatchList{
		{MentorID: "zed", Total: 70},
		{MentorID: "bob", Total: 70},
		{MentorID: "amy", Total: 60},
	}

	best, ok := l.Best()
	assert.True(t, ok)
	assert.Equal(t, UserID("bob"), best.MentorID)

	sorted := l.Sorted()
	assert.Equal(t, UserID("bob"), sorted[0].MentorID)
	assert.Equal(t, UserID("zed"), sorted[1].MentorID)
	assert.Equal(t, UserID("zed"), l[0].MentorID, "Sorted must not reorder the receiver")

	_, ok = MatchList{}.Best()
	assert.False(t, ok)
}
