package mentorship

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Policy holds the tunable constants of the matching engine.
type Policy struct {
	// MaxMenteesPerMentor caps concurrent active mentorships per mentor.
	MaxMenteesPerMentor int

	// MinSeniority is the lowest seniority level allowed to mentor.
	MinSeniority int

	// AffinityBonus is added to the ranking score when mentor and mentee
	// study at the same university. Not persisted with the mentorship.
	AffinityBonus float64

	// SuggestionMinInterests is the profile completeness threshold for
	// connection suggestions.
	SuggestionMinInterests int

	// SuggestionMaxCommon caps the interest names attached to a suggestion.
	SuggestionMaxCommon int

	// WaitlistTTL expires queued entries older than this. Zero disables expiry.
	WaitlistTTL time.Duration
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxMenteesPerMentor:    3,
		MinSeniority:           4,
		AffinityBonus:          10,
		SuggestionMinInterests: 3,
		SuggestionMaxCommon:    5,
		WaitlistTTL:            0,
	}
}

// Validate checks the policy for nonsensical values.
func (p Policy) Validate() error {
	var errs []string
	if p.MaxMenteesPerMentor < 1 {
		errs = append(errs, "max mentees per mentor must be at least 1")
	}
	if p.MinSeniority < 1 {
		errs = append(errs, "min seniority must be at least 1")
	}
	if p.AffinityBonus < 0 {
		errs = append(errs, "affinity bonus cannot be negative")
	}
	if p.SuggestionMinInterests < 0 {
		errs = append(errs, "suggestion min interests cannot be negative")
	}
	if p.SuggestionMaxCommon < 1 {
		errs = append(errs, "suggestion max common must be at least 1")
	}
	if p.WaitlistTTL < 0 {
		errs = append(errs, "waitlist TTL cannot be negative")
	}
	if len(errs) > 0 {
		return errors.New("invalid policy: " + strings.Join(errs, "; "))
	}
	return nil
}

// ExpiryCutoff returns the requestedAt bound below which entries are stale.
// ok is false when expiry is disabled.
func (p Policy) ExpiryCutoff(now time.Time) (cutoff time.Time, ok bool) {
	if p.WaitlistTTL <= 0 {
		return time.Time{}, false
	}
	return now.Add(-p.WaitlistTTL), true
}

// ══════════════════════════════════════════════════════════════════════════════
// ELIGIBILITY
// ══════════════════════════════════════════════════════════════════════════════

// Eligibility reasons.
const (
	ReasonProfileNotFound  = "profile not found"
	ReasonInvalidSeniority = "invalid seniority format"
)

// MentorCandidate is a derived view of a user considered as a mentor.
type MentorCandidate struct {
	UserID            UserID
	Seniority         *int // nil when the stored value could not be parsed
	University        string
	ActiveMenteeCount int
}

// Eligibility is the outcome of checking a candidate against the policy.
type Eligibility struct {
	Eligible bool
	Reason   string
}

// Evaluate applies the eligibility rules in order and reports the first
// failing one. A nil candidate means the profile does not exist.
func (p Policy) Evaluate(c *MentorCandidate) Eligibility {
	if c == nil {
		return Eligibility{Reason: ReasonProfileNotFound}
	}
	if c.Seniority == nil {
		return Eligibility{Reason: ReasonInvalidSeniority}
	}
	if *c.Seniority < p.MinSeniority {
		return Eligibility{Reason: fmt.Sprintf("minimum seniority is %d (current: %d)", p.MinSeniority, *c.Seniority)}
	}
	if c.ActiveMenteeCount >= p.MaxMenteesPerMentor {
		return Eligibility{Reason: fmt.Sprintf("mentor has reached the limit of %d mentees", p.MaxMenteesPerMentor)}
	}
	return Eligibility{Eligible: true}
}

// AvailableSlots returns the remaining capacity of a candidate, never negative.
func (p Policy) AvailableSlots(c MentorCandidate) int {
	if n := p.MaxMenteesPerMentor - c.ActiveMenteeCount; n > 0 {
		return n
	}
	return 0
}

// SameUniversity reports whether both values are set and equal ignoring case
// and surrounding whitespace.
func SameUniversity(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

// RankingScore combines similarity with the university affinity bonus.
func (p Policy) RankingScore(similarity float64, menteeUniversity, mentorUniversity string) float64 {
	if SameUniversity(menteeUniversity, mentorUniversity) {
		return similarity + p.AffinityBonus
	}
	return similarity
}
