package matching

import (
	"testing"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEligibleMentors(t *testing.T) {
	f := newFixture(t)
	f.user("busy", "6", "USP")
	f.user("free", "5", "UnB")
	f.user("also-free", "7", "")
	f.user("junior", "2", "")
	f.user("full", "9", "")
	f.occupy("busy", 2)
	f.occupy("full", 3)

	mentors, err := f.engine.Directory.ListEligibleMentors(f.ctx)
	require.NoError(t, err)
	require.Len(t, mentors, 3)

	assert.Equal(t, mentorship.UserID("also-free"), mentors[0].UserID)
	assert.Equal(t, mentorship.UserID("free"), mentors[1].UserID)
	assert.Equal(t, 3, mentors[1].AvailableSlots)
	assert.Equal(t, "UnB", mentors[1].University)
	assert.Equal(t, mentorship.UserID("busy"), mentors[2].UserID)
	assert.Equal(t, 2, mentors[2].ActiveMenteeCount)
	assert.Equal(t, 1, mentors[2].AvailableSlots)
}

func TestMyMenteesAndMyMentor(t *testing.T) {
	f := newFixture(t)
	f.user("mentor", "5", "")
	f.user("mentee", "1", "")

	none, err := f.engine.Directory.MyMentor(f.ctx, "mentee")
	require.NoError(t, err)
	assert.Nil(t, none)

	m, err := f.engine.Registry.CreateMentorship(f.ctx, "mentor", "mentee")
	require.NoError(t, err)

	mine, err := f.engine.Directory.MyMentor(f.ctx, "mentee")
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, m.ID, mine.MentorshipID)
	assert.Equal(t, "User mentor", mine.CounterpartName)

	mentees, err := f.engine.Directory.MyMentees(f.ctx, "mentor")
	require.NoError(t, err)
	require.Len(t, mentees, 1)
	assert.Equal(t, mentorship.UserID("mentee"), mentees[0].CounterpartID)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.user("mentor", "5", "")
	f.user("mentee", "1", "")
	f.user("waiting", "1", "")
	_, err := f.engine.Registry.CreateMentorship(f.ctx, "mentor", "mentee")
	require.NoError(t, err)
	f.occupy("mentor", 2)

	res, err := f.engine.Waitlist.RequestMentor(f.ctx, "waiting")
	require.NoError(t, err)
	require.Equal(t, RequestQueued, res.Status)

	stats, err := f.engine.Directory.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ActiveMentorships)
	assert.Equal(t, 1, stats.InQueue)
	assert.Zero(t, stats.AvailableMentors)
}

func TestNewEngine_ValidatesDependencies(t *testing.T) {
	_, err := NewEngine(Dependencies{})
	assert.Error(t, err)

	store := memory.NewStore()
	bad := mentorship.DefaultPolicy()
	bad.MaxMenteesPerMentor = 0
	_, err = NewEngine(Dependencies{
		Store: store, Profiles: store, Interests: store, Connections: store,
		Notifier: store, IDs: &memory.SequentialIDs{}, Policy: bad,
	})
	assert.Error(t, err)
}
