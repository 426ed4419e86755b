package matching

import (
	"errors"
	"testing"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMentorship_RejectsIneligibleMentor(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "")
	f.user("junior", "2º", "")
	f.user("garbled", "n/a", "")

	_, err := f.engine.Registry.CreateMentorship(f.ctx, "junior", "mentee")
	assert.ErrorIs(t, err, shared.ErrNotEligibleMentor)
	assert.Equal(t, "minimum seniority is 4 (current: 2)", shared.Reason(err))

	_, err = f.engine.Registry.CreateMentorship(f.ctx, "garbled", "mentee")
	assert.Equal(t, mentorship.ReasonInvalidSeniority, shared.Reason(err))

	_, err = f.engine.Registry.CreateMentorship(f.ctx, "nobody", "mentee")
	assert.Equal(t, mentorship.ReasonProfileNotFound, shared.Reason(err))

	_, err = f.engine.Registry.CreateMentorship(f.ctx, "mentee", "mentee")
	assert.ErrorIs(t, err, shared.ErrSelfMentorship)
}

func TestCreateMentorship_DuplicatePair(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "")
	f.user("mentor", "5", "")
	f.user("other", "5", "")

	_, err := f.engine.Registry.CreateMentorship(f.ctx, "mentor", "mentee")
	require.NoError(t, err)

	_, err = f.engine.Registry.CreateMentorship(f.ctx, "mentor", "mentee")
	assert.ErrorIs(t, err, shared.ErrAlreadyActiveMentorship)

	_, err = f.engine.Registry.CreateMentorship(f.ctx, "other", "mentee")
	assert.ErrorIs(t, err, shared.ErrAlreadyHasMentor)

	assert.Equal(t, 1, f.activeCount("mentor"))
	assert.Zero(t, f.activeCount("other"))
}

func TestCreateMentorship_RemovesWaitlistEntry(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "", golang)

	res, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	require.Equal(t, RequestQueued, res.Status)

	f.user("mentor", "5", "", golang)
	m, err := f.engine.Registry.CreateMentorship(f.ctx, "mentor", "mentee")
	require.NoError(t, err)
	assert.Equal(t, 100.0, m.CompatibilityScore)

	_, err = f.engine.Waitlist.GetPosition(f.ctx, "mentee")
	assert.ErrorIs(t, err, shared.ErrNotQueued)
}

func TestCreateMentorship_StoredScoreExcludesBonus(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "UFMG", golang, rust)
	f.user("mentor", "5", "ufmg", golang)

	ranked, err := f.engine.Finder.RankMentors(f.ctx, "mentee")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 50.0, ranked[0].Compatibility)
	assert.Equal(t, 60.0, ranked[0].Total)

	res, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.CompatibilityScore)
}

func TestCreateMentorship_NotificationFailureKeepsMatch(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "")
	f.user("mentor", "5", "")
	f.store.FailNotifications(errors.New("smtp down"))

	m, err := f.engine.Registry.CreateMentorship(f.ctx, "mentor", "mentee")
	require.NoError(t, err)
	assert.True(t, m.IsActive())
	assert.Equal(t, 1, f.activeCount("mentor"))

	warns := f.logs.FilterMessage("failed to notify mentor about new mentee").All()
	require.Len(t, warns, 1)
	assert.Equal(t, "mentor", warns[0].ContextMap()["mentor_id"])
}

func TestCompleteMentorship(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "")
	f.user("mentor", "5", "")
	m, err := f.engine.Registry.CreateMentorship(f.ctx, "mentor", "mentee")
	require.NoError(t, err)

	_, err = f.engine.Registry.CompleteMentorship(f.ctx, "missing", "mentor")
	assert.ErrorIs(t, err, shared.ErrMentorshipNotFound)

	_, err = f.engine.Registry.CompleteMentorship(f.ctx, m.ID, "stranger")
	assert.ErrorIs(t, err, shared.ErrNotAuthorizedToComplete)

	done, err := f.engine.Registry.CompleteMentorship(f.ctx, m.ID, "mentor")
	require.NoError(t, err)
	assert.Equal(t, mentorship.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Zero(t, f.activeCount("mentor"))

	_, err = f.engine.Registry.CompleteMentorship(f.ctx, m.ID, "mentee")
	assert.ErrorIs(t, err, shared.ErrMentorshipNotActive)
}

func TestCancelMentorship(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "")
	f.user("mentor", "5", "")
	m, err := f.engine.Registry.CreateMentorship(f.ctx, "mentor", "mentee")
	require.NoError(t, err)

	_, err = f.engine.Registry.CancelMentorship(f.ctx, m.ID, "stranger", "spam")
	assert.ErrorIs(t, err, shared.ErrNotAuthorizedToComplete)

	cancelled, err := f.engine.Registry.CancelMentorship(f.ctx, m.ID, "mentee", "schedule conflict")
	require.NoError(t, err)
	assert.Equal(t, mentorship.StatusCancelled, cancelled.Status)
	assert.Equal(t, "schedule conflict", cancelled.CancellationReason)

	stored, err := f.store.Repositories().Mentorships.FindByID(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, mentorship.StatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)
}

func TestIsEligibleMentor(t *testing.T) {
	f := newFixture(t)
	f.user("mentor", "4th term", "")

	ok, reason, err := f.engine.Eligibility.IsEligibleMentor(f.ctx, "mentor")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reason)

	f.occupy("mentor", 3)
	ok, reason, err = f.engine.Eligibility.IsEligibleMentor(f.ctx, "mentor")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "mentor has reached the limit of 3 mentees", reason)
}

func TestFindBestMentor(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "UnB", golang, rust, music, chess)
	f.user("carol", "5", "USP", golang, rust)       // 50
	f.user("bob", "5", "USP", golang, rust)         // 50, lower id wins the tie
	f.user("dave", "6", "UnB", golang)              // 25 + 10
	f.user("erin", "9", "USP", golang, rust, music) // 75, but full
	f.occupy("erin", 3)

	best, err := f.engine.Finder.FindBestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, mentorship.UserID("bob"), best.MentorID)
	assert.Equal(t, 50.0, best.Compatibility)

	none, err := newFixture(t).engine.Finder.FindBestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFindBestMentor_AffinityBonusDecides(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "UnB", golang, rust, music, chess)
	f.user("alice", "5", "USP", golang)       // 25
	f.user("zoe", "5", "unb", golang, hiking) // 20 + 10

	best, err := f.engine.Finder.FindBestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	assert.Equal(t, mentorship.UserID("zoe"), best.MentorID)
	assert.Equal(t, 20.0, best.Compatibility)
	assert.Equal(t, 30.0, best.Total)
}
