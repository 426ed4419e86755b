package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

// MentorAvailability is an eligible mentor with free capacity.
type MentorAvailability struct {
	UserID            mentorship.UserID
	FullName          string
	University        string
	Seniority         int
	ActiveMenteeCount int
	AvailableSlots    int
}

// MentorshipView is a mentorship seen from one participant.
type MentorshipView struct {
	MentorshipID       string
	CounterpartID      mentorship.UserID
	CounterpartName    string
	CompatibilityScore float64
	MatchedAt          time.Time
}

// Stats summarises the engine state.
type Stats struct {
	ActiveMentorships int
	InQueue           int
	AvailableMentors  int
}

// Directory answers read-only questions about mentors and mentorships.
type Directory struct {
	store    mentorship.Store
	profiles mentorship.ProfileProvider
	policy   mentorship.Policy
}

// NewDirectory creates a directory.
func NewDirectory(deps Dependencies) *Directory {
	return &Directory{store: deps.Store, profiles: deps.Profiles, policy: deps.Policy}
}

// ListEligibleMentors returns every mentor that can take a mentee now,
// most available slots first, then by user id.
func (d *Directory) ListEligibleMentors(ctx context.Context) ([]MentorAvailability, error) {
	candidates, err := d.store.Repositories().Candidates.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	out := make([]MentorAvailability, 0)
	for i := range candidates {
		c := candidates[i]
		if !d.policy.Evaluate(&c).Eligible {
			continue
		}
		name, university, err := d.describe(ctx, c.UserID)
		if err != nil {
			return nil, err
		}
		if university == "" {
			university = c.University
		}
		out = append(out, MentorAvailability{
			UserID:            c.UserID,
			FullName:          name,
			University:        university,
			Seniority:         *c.Seniority,
			ActiveMenteeCount: c.ActiveMenteeCount,
			AvailableSlots:    d.policy.AvailableSlots(c),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvailableSlots != out[j].AvailableSlots {
			return out[i].AvailableSlots > out[j].AvailableSlots
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// MyMentees returns the active mentorships of mentorID.
func (d *Directory) MyMentees(ctx context.Context, mentorID mentorship.UserID) ([]MentorshipView, error) {
	active, err := d.store.Repositories().Mentorships.FindActiveByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("find mentees: %w", err)
	}

	out := make([]MentorshipView, 0, len(active))
	for _, m := range active {
		v, err := d.view(ctx, m, m.MentorID)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MyMentor returns the active mentorship of menteeID, or nil.
func (d *Directory) MyMentor(ctx context.Context, menteeID mentorship.UserID) (*MentorshipView, error) {
	m, err := d.store.Repositories().Mentorships.FindActiveByMentee(ctx, menteeID)
	if err != nil {
		return nil, fmt.Errorf("find mentor: %w", err)
	}
	if m == nil {
		return nil, nil
	}
	v, err := d.view(ctx, m, m.MenteeID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Stats returns active mentorship, queue and available mentor counts.
func (d *Directory) Stats(ctx context.Context) (*Stats, error) {
	repos := d.store.Repositories()

	active, err := repos.Mentorships.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count mentorships: %w", err)
	}
	queued, err := repos.Waitlist.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count waitlist: %w", err)
	}
	candidates, err := repos.Candidates.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	available := 0
	for i := range candidates {
		if d.policy.Evaluate(&candidates[i]).Eligible {
			available++
		}
	}

	return &Stats{ActiveMentorships: active, InQueue: queued, AvailableMentors: available}, nil
}

// view describes m as seen by viewer.
func (d *Directory) view(ctx context.Context, m *mentorship.Mentorship, viewer mentorship.UserID) (MentorshipView, error) {
	counterpart := m.Counterpart(viewer)
	name, _, err := d.describe(ctx, counterpart)
	if err != nil {
		return MentorshipView{}, err
	}
	return MentorshipView{
		MentorshipID:       m.ID,
		CounterpartID:      counterpart,
		CounterpartName:    name,
		CompatibilityScore: m.CompatibilityScore,
		MatchedAt:          m.MatchedAt,
	}, nil
}

func (d *Directory) describe(ctx context.Context, userID mentorship.UserID) (string, string, error) {
	p, err := d.profiles.GetProfile(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return userID.String(), "", nil
		}
		return "", "", fmt.Errorf("load profile: %w", err)
	}
	return p.DisplayName(), p.University, nil
}
