// Package memory provides an in-process implementation of the mentorship
// store and its collaborators. It backs tests and CLI dry runs and honours
// the same atomicity contract as the postgres store: units of work are
// serialised and rolled back on error.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
)

type state struct {
	mentorships map[string]mentorship.Mentorship
	waitlist    map[mentorship.UserID]mentorship.WaitlistEntry
	profiles    map[mentorship.UserID]mentorship.Profile
	interests   map[mentorship.UserID]mentorship.InterestSet
	names       map[mentorship.InterestID]string
	conns       []social.Connection
}

func newState() state {
	return state{
		mentorships: make(map[string]mentorship.Mentorship),
		waitlist:    make(map[mentorship.UserID]mentorship.WaitlistEntry),
		profiles:    make(map[mentorship.UserID]mentorship.Profile),
		interests:   make(map[mentorship.UserID]mentorship.InterestSet),
		names:       make(map[mentorship.InterestID]string),
	}
}

// Only the tables written inside units of work are snapshotted.
func (s state) cloneMutable() state {
	c := s
	c.mentorships = make(map[string]mentorship.Mentorship, len(s.mentorships))
	for k, v := range s.mentorships {
		c.mentorships[k] = v
	}
	c.waitlist = make(map[mentorship.UserID]mentorship.WaitlistEntry, len(s.waitlist))
	for k, v := range s.waitlist {
		c.waitlist[k] = v
	}
	return c
}

// Store is an in-memory mentorship store.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state

	notifications []Notification
	notifyErr     error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Repositories returns repositories operating on the live data.
func (s *Store) Repositories() mentorship.Repositories {
	return mentorship.Repositories{
		Mentorships: mentorshipRepo{s},
		Waitlist:    waitlistRepo{s},
		Candidates:  candidateRepo{s},
	}
}

// Within serialises units of work. The lock keys are implied by the global
// lock. On error the mentorship and waitlist tables are restored.
func (s *Store) Within(ctx context.Context, lockKeys []mentorship.UserID, fn func(ctx context.Context, tx mentorship.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.cloneMutable()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(ctx, s.Repositories())
}

func (s *Store) restore(snapshot state) {
	s.mu.Lock()
	s.data.mentorships = snapshot.mentorships
	s.data.waitlist = snapshot.waitlist
	s.mu.Unlock()
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTORSHIPS
// ══════════════════════════════════════════════════════════════════════════════

type mentorshipRepo struct{ s *Store }

func (r mentorshipRepo) Insert(ctx context.Context, m *mentorship.Mentorship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.mentorships[m.ID]; ok {
		return shared.NewDomainError("mentorship", "Insert", shared.ErrAlreadyExists, "duplicate mentorship id")
	}
	if m.Status == mentorship.StatusActive {
		for _, existing := range r.s.data.mentorships {
			if existing.Status != mentorship.StatusActive {
				continue
			}
			if existing.MentorID == m.MentorID && existing.MenteeID == m.MenteeID {
				return shared.ErrAlreadyActiveMentorship
			}
			if existing.MenteeID == m.MenteeID {
				return shared.ErrAlreadyHasMentor
			}
		}
	}
	r.s.data.mentorships[m.ID] = *m
	return nil
}

func (r mentorshipRepo) UpdateStatus(ctx context.Context, m *mentorship.Mentorship) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.mentorships[m.ID]; !ok {
		return shared.ErrMentorshipNotFound
	}
	r.s.data.mentorships[m.ID] = *m
	return nil
}

func (r mentorshipRepo) FindByID(ctx context.Context, id string) (*mentorship.Mentorship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.data.mentorships[id]
	if !ok {
		return nil, shared.ErrMentorshipNotFound
	}
	return &m, nil
}

func (r mentorshipRepo) FindActiveByMentor(ctx context.Context, mentorID mentorship.UserID) ([]*mentorship.Mentorship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*mentorship.Mentorship
	for _, m := range r.s.data.mentorships {
		if m.Status == mentorship.StatusActive && m.MentorID == mentorID {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MatchedAt.Equal(out[j].MatchedAt) {
			return out[i].MatchedAt.Before(out[j].MatchedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r mentorshipRepo) FindActiveByMentee(ctx context.Context, menteeID mentorship.UserID) (*mentorship.Mentorship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.data.mentorships {
		if m.Status == mentorship.StatusActive && m.MenteeID == menteeID {
			return &m, nil
		}
	}
	return nil, nil
}

func (r mentorshipRepo) FindActive(ctx context.Context, mentorID, menteeID mentorship.UserID) (*mentorship.Mentorship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.data.mentorships {
		if m.Status == mentorship.StatusActive && m.MentorID == mentorID && m.MenteeID == menteeID {
			return &m, nil
		}
	}
	return nil, nil
}

func (r mentorshipRepo) CountActiveByMentor(ctx context.Context, mentorID mentorship.UserID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.activeCountLocked(mentorID), nil
}

func (r mentorshipRepo) CountActive(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, m := range r.s.data.mentorships {
		if m.Status == mentorship.StatusActive {
			n++
		}
	}
	return n, nil
}

func (s *Store) activeCountLocked(mentorID mentorship.UserID) int {
	n := 0
	for _, m := range s.data.mentorships {
		if m.Status == mentorship.StatusActive && m.MentorID == mentorID {
			n++
		}
	}
	return n
}

// ══════════════════════════════════════════════════════════════════════════════
// WAITLIST
// ══════════════════════════════════════════════════════════════════════════════

type waitlistRepo struct{ s *Store }

func (r waitlistRepo) Insert(ctx context.Context, e *mentorship.WaitlistEntry) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.waitlist[e.UserID]; ok {
		return false, nil
	}
	r.s.data.waitlist[e.UserID] = *e
	return true, nil
}

func (r waitlistRepo) Find(ctx context.Context, userID mentorship.UserID) (*mentorship.WaitlistEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.data.waitlist[userID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r waitlistRepo) Delete(ctx context.Context, userID mentorship.UserID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.waitlist[userID]; !ok {
		return false, nil
	}
	delete(r.s.data.waitlist, userID)
	return true, nil
}

func (r waitlistRepo) CountEarlier(ctx context.Context, requestedAt time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, e := range r.s.data.waitlist {
		if e.RequestedAt.Before(requestedAt) {
			n++
		}
	}
	return n, nil
}

func (r waitlistRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.data.waitlist), nil
}

func (r waitlistRepo) Oldest(ctx context.Context, limit int) ([]*mentorship.WaitlistEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*mentorship.WaitlistEntry, 0, len(r.s.data.waitlist))
	for _, e := range r.s.data.waitlist {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.Before(out[j].RequestedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r waitlistRepo) DeleteRequestedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for id, e := range r.s.data.waitlist {
		if e.RequestedAt.Before(cutoff) {
			delete(r.s.data.waitlist, id)
			n++
		}
	}
	return n, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CANDIDATES
// ══════════════════════════════════════════════════════════════════════════════

type candidateRepo struct{ s *Store }

func (r candidateRepo) ListCandidates(ctx context.Context) ([]mentorship.MentorCandidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]mentorship.MentorCandidate, 0, len(r.s.data.profiles))
	for _, p := range r.s.data.profiles {
		out = append(out, r.s.candidateLocked(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r candidateRepo) GetCandidate(ctx context.Context, userID mentorship.UserID) (*mentorship.MentorCandidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.data.profiles[userID]
	if !ok {
		return nil, nil
	}
	c := r.s.candidateLocked(p)
	return &c, nil
}

func (s *Store) candidateLocked(p mentorship.Profile) mentorship.MentorCandidate {
	c := mentorship.MentorCandidate{
		UserID:            p.UserID,
		University:        p.University,
		ActiveMenteeCount: s.activeCountLocked(p.UserID),
	}
	if p.Seniority != nil {
		v := *p.Seniority
		c.Seniority = &v
	}
	return c
}
