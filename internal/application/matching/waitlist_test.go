package matching

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMentor_MatchesBestMentor(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "UFRJ", golang, rust, music)
	f.user("mentor", "5", "USP", golang, rust)

	res, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)

	assert.Equal(t, RequestMatched, res.Status)
	assert.Equal(t, mentorship.UserID("mentor"), res.MentorID)
	assert.Equal(t, 66.67, res.CompatibilityScore)
	assert.Equal(t, 0, f.queueLen())

	notes := f.store.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, mentorship.UserID("mentor"), notes[0].MentorID)
	assert.Equal(t, "User mentee", notes[0].MenteeName)
}

func TestRequestMentor_QueuesWhenMentorIsFull(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "", golang, rust, music)
	f.user("mentor", "5", "", golang, rust)
	f.occupy("mentor", 3)

	res, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)

	assert.Equal(t, RequestQueued, res.Status)
	require.NotNil(t, res.Position)
	assert.Equal(t, 1, res.Position.Position)
	assert.Equal(t, 3, f.activeCount("mentor"))
}

func TestRequestMentor_ZeroCompatibilityStillMatches(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "")
	f.user("mentor", "6", "", chess)

	res, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	assert.Equal(t, RequestMatched, res.Status)
	assert.Zero(t, res.CompatibilityScore)
}

func TestRequestMentor_NeverSelectsJuniorMentor(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "USP", golang, rust)
	f.user("junior", "3", "USP", golang, rust)
	f.user("unparsed", "senior", "USP", golang, rust)

	res, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	assert.Equal(t, RequestQueued, res.Status)
}

func TestRequestMentor_IdempotentWhileQueued(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "", golang)

	first, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	second, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)

	assert.Equal(t, RequestQueued, first.Status)
	assert.Equal(t, RequestQueued, second.Status)
	assert.Equal(t, 1, f.queueLen())
	assert.Equal(t, first.Position.RequestedAt, second.Position.RequestedAt)
}

func TestRequestMentor_AlreadyHasMentor(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "", golang)
	f.user("mentor", "5", "", golang)
	f.user("other", "7", "", golang)

	_, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)

	res, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	assert.Equal(t, RequestAlreadyHasMentor, res.Status)
	assert.Equal(t, mentorship.UserID("mentor"), res.MentorID)
}

func TestRequestMentor_MenteeCanRequestAgainAfterCompletion(t *testing.T) {
	f := newFixture(t)
	f.user("mentee", "1", "", golang)
	f.user("mentor", "5", "", golang)

	first, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	_, err = f.engine.Registry.CompleteMentorship(f.ctx, first.MentorshipID, "mentee")
	require.NoError(t, err)

	again, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
	require.NoError(t, err)
	assert.Equal(t, RequestMatched, again.Status)
	assert.NotEqual(t, first.MentorshipID, again.MentorshipID)
}

func TestGetPosition(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Waitlist.GetPosition(f.ctx, "ghost")
	assert.ErrorIs(t, err, shared.ErrNotQueued)

	ids := []mentorship.UserID{"q3", "q1", "q2"}
	for _, id := range ids {
		f.user(id, "1", "", golang)
		_, err := f.engine.Waitlist.RequestMentor(f.ctx, id)
		require.NoError(t, err)
	}

	for i, id := range ids {
		pos, err := f.engine.Waitlist.GetPosition(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, i+1, pos.Position, id)
		assert.Equal(t, 3, pos.TotalInQueue)
	}
}

func TestProcessQueue_SecondRunFindsNothing(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 4; i++ {
		id := mentorship.UserID(fmt.Sprintf("mentee-%d", i))
		f.user(id, "1", "", golang)
		_, err := f.engine.Waitlist.RequestMentor(f.ctx, id)
		require.NoError(t, err)
	}
	require.Equal(t, 4, f.queueLen())

	f.user("mentor", "8", "", golang)

	matched, err := f.engine.Waitlist.ProcessQueue(f.ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, matched)
	assert.Equal(t, 1, f.queueLen())

	// The oldest three were served first.
	pos, err := f.engine.Waitlist.GetPosition(f.ctx, "mentee-3")
	require.NoError(t, err)
	assert.Equal(t, 1, pos.Position)

	matched, err = f.engine.Waitlist.ProcessQueue(f.ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, matched)
	assert.Equal(t, 1, f.queueLen())
	assert.Equal(t, 3, f.activeCount("mentor"))
}

func TestProcessQueue_RespectsLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		id := mentorship.UserID(fmt.Sprintf("mentee-%d", i))
		f.user(id, "1", "")
		_, err := f.engine.Waitlist.RequestMentor(f.ctx, id)
		require.NoError(t, err)
	}
	f.user("mentor", "8", "")

	matched, err := f.engine.Waitlist.ProcessQueue(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, matched)

	_, err = f.engine.Waitlist.GetPosition(f.ctx, "mentee-0")
	assert.ErrorIs(t, err, shared.ErrNotQueued)
}

func TestExpireStale(t *testing.T) {
	f := newFixture(t)
	f.user("old", "1", "")
	_, err := f.engine.Waitlist.RequestMentor(f.ctx, "old")
	require.NoError(t, err)

	removed, err := f.engine.Waitlist.ExpireStale(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, removed, "expiry is disabled by default")

	g := newFixture(t, func(d *Dependencies) { d.Policy.WaitlistTTL = 90 * time.Second })
	g.user("old", "1", "")
	g.user("new", "1", "")
	_, err = g.engine.Waitlist.RequestMentor(g.ctx, "old")
	require.NoError(t, err)
	// Each clock read advances one minute; the next requests push "old" past the TTL.
	g.clock.Now()
	_, err = g.engine.Waitlist.RequestMentor(g.ctx, "new")
	require.NoError(t, err)

	removed, err = g.engine.Waitlist.ExpireStale(g.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = g.engine.Waitlist.GetPosition(g.ctx, "old")
	assert.ErrorIs(t, err, shared.ErrNotQueued)
	_, err = g.engine.Waitlist.GetPosition(g.ctx, "new")
	assert.NoError(t, err)
}

func TestRequestMentor_ConcurrentRequestsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	f.user("mentor", "9", "", golang)

	const mentees = 12
	for i := 0; i < mentees; i++ {
		f.user(mentorship.UserID(fmt.Sprintf("m%02d", i)), "1", "", golang)
	}

	var wg sync.WaitGroup
	results := make([]*RequestResult, mentees)
	errs := make([]error, mentees)
	for i := 0; i < mentees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.engine.Waitlist.RequestMentor(f.ctx, mentorship.UserID(fmt.Sprintf("m%02d", i)))
		}(i)
	}
	wg.Wait()

	matched, queued := 0, 0
	for i := range results {
		require.NoError(t, errs[i])
		switch results[i].Status {
		case RequestMatched:
			matched++
		case RequestQueued:
			queued++
		}
	}

	assert.Equal(t, 3, matched)
	assert.Equal(t, mentees-3, queued)
	assert.Equal(t, 3, f.activeCount("mentor"))
	assert.Equal(t, mentees-3, f.queueLen())
}

// conflictingStore fails the first reservations as if another request had
// just matched the mentee with a mentorship that ended before the re-read.
type conflictingStore struct {
	*memory.Store
	conflicts int
	mu        sync.Mutex
}

func (s *conflictingStore) Within(ctx context.Context, lockKeys []mentorship.UserID, fn func(ctx context.Context, tx mentorship.Repositories) error) error {
	s.mu.Lock()
	conflict := len(lockKeys) == 2 && s.conflicts > 0
	if conflict {
		s.conflicts--
	}
	s.mu.Unlock()

	if conflict {
		return shared.ErrAlreadyActiveMentorship
	}
	return s.Store.Within(ctx, lockKeys, fn)
}

func TestRequestMentor_LostReservationRetries(t *testing.T) {
	tests := []struct {
		name      string
		conflicts int
		want      RequestStatus
	}{
		{name: "next attempt matches", conflicts: 1, want: RequestMatched},
		{name: "queued after every attempt conflicts", conflicts: maxMatchAttempts, want: RequestQueued},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(d *Dependencies) {
				d.Store = &conflictingStore{Store: d.Store.(*memory.Store), conflicts: tt.conflicts}
			})
			f.user("mentee", "1", "", golang)
			f.user("mentor", "5", "", golang)

			res, err := f.engine.Waitlist.RequestMentor(f.ctx, "mentee")
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.Status)
		})
	}
}
