package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Interest ids used across tests.
const (
	golang mentorship.InterestID = iota + 1
	rust
	music
	chess
	hiking
	poetry
	cooking
)

// stepClock advances one minute on every call so queue order is stable.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Minute)
	return c.cur
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	engine *Engine
	logs   *observer.ObservedLogs
	clock  *stepClock
}

func newFixture(t *testing.T, opts ...func(*Dependencies)) *fixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	store := memory.NewStore()
	clock := newStepClock()

	for id, name := range map[mentorship.InterestID]string{
		golang: "Go", rust: "Rust", music: "Music", chess: "Chess",
		hiking: "Hiking", poetry: "Poetry", cooking: "Cooking",
	} {
		store.SetInterestName(id, name)
	}

	deps := Dependencies{
		Store:       store,
		Profiles:    store,
		Interests:   store,
		Connections: store,
		Notifier:    store,
		IDs:         &memory.SequentialIDs{},
		Policy:      mentorship.DefaultPolicy(),
		Logger:      logger.NewFromZap(zap.New(core)),
		Clock:       clock.Now,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	engine, err := NewEngine(deps)
	require.NoError(t, err)

	return &fixture{t: t, ctx: context.Background(), store: store, engine: engine, logs: logs, clock: clock}
}

// user creates a profile with the given raw seniority and interests.
func (f *fixture) user(id mentorship.UserID, seniority, university string, interests ...mentorship.InterestID) {
	f.t.Helper()
	p := mentorship.ProfileUpdate{UserID: id, FullName: "User " + id.String(), University: university, SeniorityRaw: seniority}.ToProfile()
	require.NoError(f.t, f.store.UpsertProfile(f.ctx, p))
	require.NoError(f.t, f.store.SetInterests(f.ctx, id, interests...))
}

// occupy gives mentorID n active mentees.
func (f *fixture) occupy(mentorID mentorship.UserID, n int) {
	f.t.Helper()
	for i := 0; i < n; i++ {
		mentee := mentorship.UserID(mentorID.String() + "-mentee-" + string(rune('a'+i)))
		f.user(mentee, "1", "")
		_, err := f.engine.Registry.CreateMentorship(f.ctx, mentorID, mentee)
		require.NoError(f.t, err)
	}
}

func (f *fixture) queueLen() int {
	f.t.Helper()
	n, err := f.store.Repositories().Waitlist.Count(f.ctx)
	require.NoError(f.t, err)
	return n
}

func (f *fixture) activeCount(mentorID mentorship.UserID) int {
	f.t.Helper()
	n, err := f.store.Repositories().Mentorships.CountActiveByMentor(f.ctx, mentorID)
	require.NoError(f.t, err)
	return n
}
