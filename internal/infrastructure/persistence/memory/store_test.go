package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func active(id string, mentor, mentee mentorship.UserID) *mentorship.Mentorship {
	return &mentorship.Mentorship{ID: id, MentorID: mentor, MenteeID: mentee, Status: mentorship.StatusActive, MatchedAt: time.Now()}
}

func TestWithin_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.Within(ctx, []mentorship.UserID{"mentor", "mentee"}, func(ctx context.Context, tx mentorship.Repositories) error {
		require.NoError(t, tx.Mentorships.Insert(ctx, active("a", "mentor", "mentee")))
		_, err := tx.Waitlist.Insert(ctx, &mentorship.WaitlistEntry{UserID: "other", RequestedAt: time.Now()})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, _ := s.Repositories().Mentorships.CountActive(ctx)
	assert.Zero(t, n)
	q, _ := s.Repositories().Waitlist.Count(ctx)
	assert.Zero(t, q)
}

func TestMentorshipInsert_EnforcesActiveUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Repositories().Mentorships

	require.NoError(t, repo.Insert(ctx, active("a", "mentor", "mentee")))
	assert.ErrorIs(t, repo.Insert(ctx, active("b", "mentor", "mentee")), shared.ErrAlreadyActiveMentorship)
	assert.ErrorIs(t, repo.Insert(ctx, active("c", "other", "mentee")), shared.ErrAlreadyHasMentor)

	m, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, m.Complete("mentee", time.Now()))
	require.NoError(t, repo.UpdateStatus(ctx, m))

	assert.NoError(t, repo.Insert(ctx, active("d", "mentor", "mentee")))
}

func TestWaitlist_OrderingAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Repositories().Waitlist
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []mentorship.UserID{"c", "a", "b"} {
		ok, err := repo.Insert(ctx, &mentorship.WaitlistEntry{UserID: id, RequestedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := repo.Insert(ctx, &mentorship.WaitlistEntry{UserID: "a", RequestedAt: base})
	require.NoError(t, err)
	assert.False(t, ok)

	oldest, err := repo.Oldest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.Equal(t, mentorship.UserID("c"), oldest[0].UserID)
	assert.Equal(t, mentorship.UserID("a"), oldest[1].UserID)

	n, _ := repo.CountEarlier(ctx, base.Add(2*time.Minute))
	assert.Equal(t, 2, n)

	removed, _ := repo.DeleteRequestedBefore(ctx, base.Add(90*time.Second))
	assert.Equal(t, 2, removed)
	total, _ := repo.Count(ctx)
	assert.Equal(t, 1, total)
}

func TestCandidates_IncludeLiveCounts(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	five := 5
	require.NoError(t, s.UpsertProfile(ctx, &mentorship.Profile{UserID: "mentor", Seniority: &five, University: "USP"}))
	require.NoError(t, s.Repositories().Mentorships.Insert(ctx, active("a", "mentor", "x")))

	c, err := s.Repositories().Candidates.GetCandidate(ctx, "mentor")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 1, c.ActiveMenteeCount)
	assert.Equal(t, 5, *c.Seniority)

	missing, err := s.Repositories().Candidates.GetCandidate(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
