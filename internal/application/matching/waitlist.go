package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// DefaultProcessLimit is the batch size of ProcessQueue when none is given.
const DefaultProcessLimit = 10

// A concurrent request may fill the selected mentor between ranking and
// reservation. The search is repeated this many times before queueing.
const maxMatchAttempts = 3

// RequestStatus is the outcome of a mentor request.
type RequestStatus string

const (
	RequestMatched          RequestStatus = "matched"
	RequestQueued           RequestStatus = "queued"
	RequestAlreadyHasMentor RequestStatus = "already_has_mentor"
)

// RequestResult describes what happened to a mentor request.
type RequestResult struct {
	Status             RequestStatus
	MentorID           mentorship.UserID
	MentorshipID       string
	CompatibilityScore float64
	// Position is set for queued requests.
	Position *mentorship.QueuePosition
}

// Waitlist handles mentor requests and the queue of unmatched mentees.
type Waitlist struct {
	store    mentorship.Store
	finder   *MatchFinder
	registry *Registry
	policy   mentorship.Policy
	log      *logger.Logger
	now      func() time.Time
}

// NewWaitlist creates a waitlist.
func NewWaitlist(deps Dependencies, finder *MatchFinder, registry *Registry) *Waitlist {
	return &Waitlist{
		store:    deps.Store,
		finder:   finder,
		registry: registry,
		policy:   deps.Policy,
		log:      deps.Logger.With(logger.Component("waitlist")),
		now:      deps.Clock,
	}
}

// RequestMentor matches menteeID with the best mentor or queues them.
// Calling it again while queued keeps the original entry.
func (w *Waitlist) RequestMentor(ctx context.Context, menteeID mentorship.UserID) (*RequestResult, error) {
	if !menteeID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	if res, err := w.existingMentor(ctx, menteeID); res != nil || err != nil {
		return res, err
	}

	for attempt := 1; attempt <= maxMatchAttempts; attempt++ {
		match, err := w.finder.FindBestMentor(ctx, menteeID)
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		m, err := w.registry.create(ctx, match.MentorID, menteeID, match.Compatibility)
		switch {
		case err == nil:
			return &RequestResult{
				Status:             RequestMatched,
				MentorID:           m.MentorID,
				MentorshipID:       m.ID,
				CompatibilityScore: m.CompatibilityScore,
			}, nil
		case errors.Is(err, shared.ErrAlreadyHasMentor), errors.Is(err, shared.ErrAlreadyActiveMentorship):
			// The competing mentorship may already have ended.
			if res, err := w.existingMentor(ctx, menteeID); res != nil || err != nil {
				return res, err
			}
			continue
		case errors.Is(err, shared.ErrNotEligibleMentor):
			w.log.Debug("selected mentor became unavailable, retrying",
				logger.MentorID(match.MentorID.String()),
				logger.MenteeID(menteeID.String()),
				logger.Int("attempt", attempt),
			)
			continue
		default:
			return nil, err
		}
	}

	return w.enqueue(ctx, menteeID)
}

func (w *Waitlist) existingMentor(ctx context.Context, menteeID mentorship.UserID) (*RequestResult, error) {
	current, err := w.store.Repositories().Mentorships.FindActiveByMentee(ctx, menteeID)
	if err != nil {
		return nil, fmt.Errorf("find active mentorship: %w", err)
	}
	if current == nil {
		return nil, nil
	}
	return &RequestResult{
		Status:             RequestAlreadyHasMentor,
		MentorID:           current.MentorID,
		MentorshipID:       current.ID,
		CompatibilityScore: current.CompatibilityScore,
	}, nil
}

func (w *Waitlist) enqueue(ctx context.Context, menteeID mentorship.UserID) (*RequestResult, error) {
	var matched *mentorship.Mentorship

	err := w.store.Within(ctx, []mentorship.UserID{menteeID}, func(ctx context.Context, tx mentorship.Repositories) error {
		current, err := tx.Mentorships.FindActiveByMentee(ctx, menteeID)
		if err != nil {
			return err
		}
		if current != nil {
			matched = current
			return nil
		}

		inserted, err := tx.Waitlist.Insert(ctx, &mentorship.WaitlistEntry{
			UserID:      menteeID,
			RequestedAt: w.now(),
		})
		if err != nil {
			return fmt.Errorf("insert waitlist entry: %w", err)
		}
		if inserted {
			w.log.Info("mentee queued", logger.MenteeID(menteeID.String()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if matched != nil {
		return &RequestResult{
			Status:             RequestAlreadyHasMentor,
			MentorID:           matched.MentorID,
			MentorshipID:       matched.ID,
			CompatibilityScore: matched.CompatibilityScore,
		}, nil
	}

	pos, err := w.GetPosition(ctx, menteeID)
	if err != nil && !errors.Is(err, shared.ErrNotQueued) {
		return nil, err
	}
	return &RequestResult{Status: RequestQueued, Position: pos}, nil
}

// GetPosition returns the 1-based queue position of userID.
func (w *Waitlist) GetPosition(ctx context.Context, userID mentorship.UserID) (*mentorship.QueuePosition, error) {
	repo := w.store.Repositories().Waitlist

	entry, err := repo.Find(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find waitlist entry: %w", err)
	}
	if entry == nil {
		return nil, shared.ErrNotQueued
	}

	earlier, err := repo.CountEarlier(ctx, entry.RequestedAt)
	if err != nil {
		return nil, fmt.Errorf("count earlier entries: %w", err)
	}
	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	return &mentorship.QueuePosition{
		Position:     earlier + 1,
		TotalInQueue: total,
		RequestedAt:  entry.RequestedAt,
	}, nil
}

// Size returns the current queue length.
func (w *Waitlist) Size(ctx context.Context) (int, error) {
	return w.store.Repositories().Waitlist.Count(ctx)
}

// ProcessQueue retries matching for the oldest limit entries and returns
// the number of mentorships created. Unmatched entries stay queued. Each
// attempt re-validates the mentor under its lock, so a mentor filled by an
// earlier entry of the same batch is skipped.
func (w *Waitlist) ProcessQueue(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultProcessLimit
	}

	entries, err := w.store.Repositories().Waitlist.Oldest(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("load waitlist: %w", err)
	}

	matched := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return matched, err
		}

		ok, err := w.processEntry(ctx, e)
		if err != nil {
			if shared.IsBusiness(err) {
				w.log.Warn("waitlist entry not matched",
					logger.MenteeID(e.UserID.String()),
					logger.String("reason", shared.Reason(err)),
				)
				continue
			}
			return matched, err
		}
		if ok {
			matched++
		}
	}

	w.log.Info("waitlist processed",
		logger.Int("entries", len(entries)),
		logger.Int("matched", matched),
	)
	return matched, nil
}

func (w *Waitlist) processEntry(ctx context.Context, e *mentorship.WaitlistEntry) (bool, error) {
	match, err := w.finder.FindBestMentor(ctx, e.UserID)
	if err != nil {
		return false, err
	}
	if match == nil {
		return false, nil
	}
	if _, err := w.registry.create(ctx, match.MentorID, e.UserID, match.Compatibility); err != nil {
		return false, err
	}
	return true, nil
}

// ExpireStale removes entries older than the policy TTL and returns how many
// were removed. A zero TTL disables expiry.
func (w *Waitlist) ExpireStale(ctx context.Context) (int, error) {
	cutoff, ok := w.policy.ExpiryCutoff(w.now())
	if !ok {
		return 0, nil
	}

	var removed int
	err := w.store.Within(ctx, nil, func(ctx context.Context, tx mentorship.Repositories) error {
		n, err := tx.Waitlist.DeleteRequestedBefore(ctx, cutoff)
		removed = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("expire waitlist: %w", err)
	}

	if removed > 0 {
		w.log.Info("expired stale waitlist entries",
			logger.Int("removed", removed),
			logger.Time("cutoff", cutoff),
		)
	}
	return removed, nil
}
