// Package mentorship contains the mentor matching domain: interest similarity,
// mentor eligibility, the mentorship lifecycle and the waitlist.
package mentorship

import (
	"strings"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the lifecycle state of a mentorship.
type Status string

const (
	// StatusActive counts toward the mentor's capacity.
	StatusActive Status = "active"

	// StatusCompleted is a terminal state set by either participant.
	StatusCompleted Status = "completed"

	// StatusCancelled is a terminal state set by either participant.
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTORSHIP
// ══════════════════════════════════════════════════════════════════════════════

// Mentorship links a mentor and a mentee.
type Mentorship struct {
	ID                 string
	MentorID           UserID
	MenteeID           UserID
	Status             Status
	CompatibilityScore float64
	MatchedAt          time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
}

// NewMentorshipParams are the inputs of NewMentorship.
type NewMentorshipParams struct {
	ID                 string
	MentorID           UserID
	MenteeID           UserID
	CompatibilityScore float64
	MatchedAt          time.Time
}

// NewMentorship creates an active mentorship.
func NewMentorship(p NewMentorshipParams) (*Mentorship, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrEmptyValue, "mentorship id is required")
	}
	if !p.MentorID.IsValid() || !p.MenteeID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}
	if p.MentorID == p.MenteeID {
		return nil, shared.ErrSelfMentorship
	}
	if p.CompatibilityScore < 0 || p.CompatibilityScore > MaxScore {
		return nil, shared.NewDomainError("mentorship", "New", shared.ErrValueOutOfRange, "compatibility score must be within 0..100")
	}
	if p.MatchedAt.IsZero() {
		p.MatchedAt = time.Now().UTC()
	}

	return &Mentorship{
		ID:                 p.ID,
		MentorID:           p.MentorID,
		MenteeID:           p.MenteeID,
		Status:             StatusActive,
		CompatibilityScore: p.CompatibilityScore,
		MatchedAt:          p.MatchedAt,
	}, nil
}

// IsParticipant reports whether userID is the mentor or the mentee.
func (m *Mentorship) IsParticipant(userID UserID) bool {
	return userID == m.MentorID || userID == m.MenteeID
}

// IsActive reports whether the mentorship counts toward capacity.
func (m *Mentorship) IsActive() bool {
	return m.Status == StatusActive
}

// Counterpart returns the other participant.
func (m *Mentorship) Counterpart(userID UserID) UserID {
	if userID == m.MentorID {
		return m.MenteeID
	}
	return m.MentorID
}

// Complete marks the mentorship completed on behalf of caller.
func (m *Mentorship) Complete(caller UserID, at time.Time) error {
	if err := m.checkTransition(caller); err != nil {
		return err
	}
	m.Status = StatusCompleted
	m.CompletedAt = &at
	return nil
}

// Cancel marks the mentorship cancelled on behalf of caller.
func (m *Mentorship) Cancel(caller UserID, reason string, at time.Time) error {
	if err := m.checkTransition(caller); err != nil {
		return err
	}
	m.Status = StatusCancelled
	m.CancelledAt = &at
	m.CancellationReason = strings.TrimSpace(reason)
	return nil
}

// Authorization is checked before state so that a third party learns
// nothing about the mentorship.
func (m *Mentorship) checkTransition(caller UserID) error {
	if !m.IsParticipant(caller) {
		return shared.ErrNotAuthorizedToComplete
	}
	if !m.IsActive() {
		return shared.ErrMentorshipNotActive
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// WAITLIST
// ══════════════════════════════════════════════════════════════════════════════

// WaitlistEntry is a mentee waiting for a mentor.
type WaitlistEntry struct {
	UserID      UserID
	RequestedAt time.Time
	// PriorityScore is reserved for future weighting and is always zero.
	PriorityScore int
}

// QueuePosition describes where a user stands in the waitlist.
type QueuePosition struct {
	Position     int
	TotalInQueue int
	RequestedAt  time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// Profile is the slice of the user profile the engine reads.
type Profile struct {
	UserID       UserID
	FullName     string
	University   string
	Seniority    *int
	SeniorityRaw string
}

// DisplayName returns the full name, falling back to the id.
func (p *Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return p.UserID.String()
}

// ProfileUpdate is a profile write. SeniorityRaw is parsed on write.
type ProfileUpdate struct {
	UserID       UserID
	FullName     string
	University   string
	SeniorityRaw string
}

// ToProfile parses the raw seniority and builds the stored profile.
// An unparseable seniority is stored as nil, not rejected.
func (u ProfileUpdate) ToProfile() *Profile {
	p := &Profile{
		UserID:       u.UserID,
		FullName:     strings.TrimSpace(u.FullName),
		University:   strings.TrimSpace(u.University),
		SeniorityRaw: u.SeniorityRaw,
	}
	if n, err := ParseSeniority(u.SeniorityRaw); err == nil {
		p.Seniority = &n
	}
	return p
}
