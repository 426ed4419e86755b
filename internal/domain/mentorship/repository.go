package mentorship

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// MentorshipRepository stores mentorships.
type MentorshipRepository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Commands
	// ─────────────────────────────────────────────────────────────────────────

	// Insert stores a new mentorship.
	// Returns ErrAlreadyActiveMentorship or ErrAlreadyHasMentor when an
	// active row already occupies the pair or the mentee.
	Insert(ctx context.Context, m *Mentorship) error

	// UpdateStatus persists status, timestamps and cancellation reason.
	// Returns ErrMentorshipNotFound if the row is gone.
	UpdateStatus(ctx context.Context, m *Mentorship) error

	// ─────────────────────────────────────────────────────────────────────────
	// Queries
	// ─────────────────────────────────────────────────────────────────────────

	// FindByID returns ErrMentorshipNotFound if absent. Inside a transaction
	// the row is locked until commit.
	FindByID(ctx context.Context, id string) (*Mentorship, error)

	// FindActiveByMentor returns active mentorships of a mentor, oldest first.
	FindActiveByMentor(ctx context.Context, mentorID UserID) ([]*Mentorship, error)

	// FindActiveByMentee returns the active mentorship of a mentee or nil.
	FindActiveByMentee(ctx context.Context, menteeID UserID) (*Mentorship, error)

	// FindActive returns the active mentorship of the pair or nil.
	FindActive(ctx context.Context, mentorID, menteeID UserID) (*Mentorship, error)

	// CountActiveByMentor returns the mentor's live capacity usage.
	CountActiveByMentor(ctx context.Context, mentorID UserID) (int, error)

	// CountActive returns the number of active mentorships.
	CountActive(ctx context.Context) (int, error)
}

// WaitlistRepository stores waitlist entries.
type WaitlistRepository interface {
	// Insert adds an entry. Returns false without error when the user is
	// already queued.
	Insert(ctx context.Context, e *WaitlistEntry) (bool, error)

	// Find returns the entry of a user or nil.
	Find(ctx context.Context, userID UserID) (*WaitlistEntry, error)

	// Delete removes the entry of a user. Returns false if there was none.
	Delete(ctx context.Context, userID UserID) (bool, error)

	// CountEarlier counts entries requested strictly before requestedAt.
	CountEarlier(ctx context.Context, requestedAt time.Time) (int, error)

	// Count returns the queue length.
	Count(ctx context.Context) (int, error)

	// Oldest returns up to limit entries ordered by requestedAt ascending.
	Oldest(ctx context.Context, limit int) ([]*WaitlistEntry, error)

	// DeleteRequestedBefore removes entries requested before cutoff.
	DeleteRequestedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// CandidateSource enumerates users as mentor candidates.
type CandidateSource interface {
	// ListCandidates returns every profile with its live active mentee count.
	ListCandidates(ctx context.Context) ([]MentorCandidate, error)

	// GetCandidate returns the candidate view of one user or nil if the
	// profile does not exist.
	GetCandidate(ctx context.Context, userID UserID) (*MentorCandidate, error)
}

// Repositories groups the repositories that participate in one unit of work.
type Repositories struct {
	Mentorships MentorshipRepository
	Waitlist    WaitlistRepository
	Candidates  CandidateSource
}

// Store provides repositories and the atomic unit of work.
type Store interface {
	// Repositories returns repositories that run outside of a transaction.
	Repositories() Repositories

	// Within runs fn in one transaction holding an exclusive lock on every
	// key in lockKeys until commit. Keys are locked in sorted order.
	// Any error returned by fn rolls the transaction back.
	Within(ctx context.Context, lockKeys []UserID, fn func(ctx context.Context, tx Repositories) error) error
}

// ══════════════════════════════════════════════════════════════════════════════
// COLLABORATORS
// Owned by the surrounding platform.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileProvider reads profiles.
type ProfileProvider interface {
	// GetProfile returns ErrProfileNotFound if absent.
	GetProfile(ctx context.Context, userID UserID) (*Profile, error)
}

// ProfileWriter writes profiles.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p *Profile) error
}

// InterestSetProvider reads interest sets.
type InterestSetProvider interface {
	// GetInterests returns the user's interests. Unknown users have an empty set.
	GetInterests(ctx context.Context, userID UserID) (InterestSet, error)

	// GetInterestSets returns the sets of the given users. Users without
	// interests are absent from the result.
	GetInterestSets(ctx context.Context, userIDs []UserID) (map[UserID]InterestSet, error)

	// ListInterestSets returns the sets of every user with at least one interest.
	ListInterestSets(ctx context.Context) (map[UserID]InterestSet, error)

	// InterestNames resolves display names.
	InterestNames(ctx context.Context, ids []InterestID) (map[InterestID]string, error)
}

// InterestWriter replaces a user's interests by name, creating unknown
// interest tags on the fly.
type InterestWriter interface {
	ReplaceInterests(ctx context.Context, userID UserID, names []string) error
}

// NotificationSink delivers the "new mentee" notification to a mentor.
type NotificationSink interface {
	NotifyNewMentee(ctx context.Context, mentorID, menteeID UserID, menteeName string) error
}

// IDGenerator generates unique mentorship identifiers.
type IDGenerator interface {
	NewID() string
}
