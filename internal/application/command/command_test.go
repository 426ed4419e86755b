package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

type env struct {
	ctx     context.Context
	store   *memory.Store
	engine  *matching.Engine
	profile *UpsertProfileHandler
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.NewStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	engine, err := matching.NewEngine(matching.Dependencies{
		Store:       store,
		Profiles:    store,
		Interests:   store,
		Connections: store,
		Notifier:    store,
		IDs:         &memory.SequentialIDs{},
		Policy:      mentorship.DefaultPolicy(),
		Logger:      logger.Nop(),
		Clock: func() time.Time {
			now = now.Add(time.Minute)
			return now
		},
	})
	require.NoError(t, err)

	return &env{
		ctx:     context.Background(),
		store:   store,
		engine:  engine,
		profile: NewUpsertProfileHandler(store, store, nil),
	}
}

func (e *env) user(t *testing.T, id, seniority string, interests ...string) {
	t.Helper()
	_, err := e.profile.Handle(e.ctx, UpsertProfileCommand{
		UserID:    id,
		FullName:  "User " + id,
		Seniority: seniority,
		Interests: interests,
	})
	require.NoError(t, err)
}

func TestRequestMentor_Matched(t *testing.T) {
	e := newEnv(t)
	e.user(t, "mentor", "5th", "Go", "Rust")
	e.user(t, "mentee", "1", "Go")

	h := NewRequestMentorHandler(e.engine.Waitlist, nil)
	res, err := h.Handle(e.ctx, RequestMentorCommand{MenteeID: "mentee"})
	require.NoError(t, err)

	assert.Equal(t, matching.RequestMatched, res.Status)
	assert.Equal(t, "mentor", res.MentorID)
	assert.Equal(t, 50.0, res.CompatibilityScore)
	assert.NotEmpty(t, res.MentorshipID)
}

func TestRequestMentor_QueuedReportsPosition(t *testing.T) {
	e := newEnv(t)
	e.user(t, "a", "1", "Go")
	e.user(t, "b", "2", "Go")

	h := NewRequestMentorHandler(e.engine.Waitlist, nil)

	first, err := h.Handle(e.ctx, RequestMentorCommand{MenteeID: "a"})
	require.NoError(t, err)
	second, err := h.Handle(e.ctx, RequestMentorCommand{MenteeID: "b"})
	require.NoError(t, err)

	assert.Equal(t, matching.RequestQueued, first.Status)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, matching.RequestQueued, second.Status)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, 2, second.TotalInQueue)
}

func TestRequestMentor_Validation(t *testing.T) {
	e := newEnv(t)
	h := NewRequestMentorHandler(e.engine.Waitlist, nil)

	_, err := h.Handle(e.ctx, RequestMentorCommand{})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Contains(t, err.Error(), "request_mentor")
}

func TestEndMentorship_CompleteAndCancel(t *testing.T) {
	e := newEnv(t)
	e.user(t, "mentor", "4", "Go")
	e.user(t, "m1", "1", "Go")
	e.user(t, "m2", "1", "Go")

	m1, err := e.engine.Registry.CreateMentorship(e.ctx, "mentor", "m1")
	require.NoError(t, err)
	m2, err := e.engine.Registry.CreateMentorship(e.ctx, "mentor", "m2")
	require.NoError(t, err)

	h := NewEndMentorshipHandler(e.engine.Registry)

	done, err := h.Complete(e.ctx, CompleteMentorshipCommand{MentorshipID: m1.ID, CallerID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, mentorship.StatusCompleted, done.Status)

	cancelled, err := h.Cancel(e.ctx, CancelMentorshipCommand{MentorshipID: m2.ID, CallerID: "mentor", Reason: "schedule"})
	require.NoError(t, err)
	assert.Equal(t, mentorship.StatusCancelled, cancelled.Status)

	_, err = h.Complete(e.ctx, CompleteMentorshipCommand{MentorshipID: m1.ID, CallerID: "m1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrMentorshipNotActive)
}

func TestEndMentorship_OutsiderIsForbidden(t *testing.T) {
	e := newEnv(t)
	e.user(t, "mentor", "4", "Go")
	e.user(t, "mentee", "1", "Go")

	m, err := e.engine.Registry.CreateMentorship(e.ctx, "mentor", "mentee")
	require.NoError(t, err)

	_, err = NewEndMentorshipHandler(e.engine.Registry).Cancel(e.ctx, CancelMentorshipCommand{MentorshipID: m.ID, CallerID: "stranger"})
	require.Error(t, err)
	assert.True(t, shared.IsForbidden(err))
}

func TestWaitlistHandler_ProcessMatchesQueuedMentee(t *testing.T) {
	e := newEnv(t)
	e.user(t, "mentee", "1", "Go")

	req := NewRequestMentorHandler(e.engine.Waitlist, nil)
	res, err := req.Handle(e.ctx, RequestMentorCommand{MenteeID: "mentee"})
	require.NoError(t, err)
	require.Equal(t, matching.RequestQueued, res.Status)

	e.user(t, "mentor", "6", "Go")

	h := NewWaitlistHandler(e.engine.Waitlist, nil)
	out, err := h.Process(e.ctx, ProcessWaitlistCommand{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Matched)
	assert.Equal(t, 0, out.Remaining)

	_, err = h.Process(e.ctx, ProcessWaitlistCommand{Limit: 1000})
	assert.True(t, shared.IsValidation(err))
}

func TestWaitlistHandler_ExpireDisabledByDefault(t *testing.T) {
	e := newEnv(t)
	out, err := NewWaitlistHandler(e.engine.Waitlist, nil).Expire(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Removed)
}

func TestUpsertProfile_ParsesSeniority(t *testing.T) {
	e := newEnv(t)

	res, err := e.profile.Handle(e.ctx, UpsertProfileCommand{UserID: "u", Seniority: "4º", Interests: []string{"Go", "go", " Music "}})
	require.NoError(t, err)
	require.NotNil(t, res.Seniority)
	assert.Equal(t, 4, *res.Seniority)

	set, err := e.store.GetInterests(e.ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	res, err = e.profile.Handle(e.ctx, UpsertProfileCommand{UserID: "u", Seniority: "senior"})
	require.NoError(t, err)
	assert.Nil(t, res.Seniority)

	p, err := e.store.GetProfile(e.ctx, "u")
	require.NoError(t, err)
	assert.Nil(t, p.Seniority)
	assert.Equal(t, "senior", p.SeniorityRaw)
}

func TestConnectUsers(t *testing.T) {
	e := newEnv(t)
	h := NewConnectUsersHandler(e.store)

	require.NoError(t, h.Handle(e.ctx, ConnectUsersCommand{RequesterID: "a", AddresseeID: "b", Status: social.ConnectionStatusPending}))

	conns, err := e.store.ConnectionsOf(e.ctx, "b")
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, social.ConnectionStatusPending, conns[0].Status)

	err = h.Handle(e.ctx, ConnectUsersCommand{RequesterID: "a", AddresseeID: "a", Status: social.ConnectionStatusPending})
	assert.True(t, shared.IsValidation(err))

	err = h.Handle(e.ctx, ConnectUsersCommand{RequesterID: "a", AddresseeID: "b", Status: "blocked"})
	assert.Error(t, err)
}
