package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// Registry owns the mentorship lifecycle.
type Registry struct {
	store     mentorship.Store
	profiles  mentorship.ProfileProvider
	interests mentorship.InterestSetProvider
	notifier  mentorship.NotificationSink
	ids       mentorship.IDGenerator
	policy    mentorship.Policy
	log       *logger.Logger
	now       func() time.Time
}

// NewRegistry creates a registry.
func NewRegistry(deps Dependencies) *Registry {
	return &Registry{
		store:     deps.Store,
		profiles:  deps.Profiles,
		interests: deps.Interests,
		notifier:  deps.Notifier,
		ids:       deps.IDs,
		policy:    deps.Policy,
		log:       deps.Logger.With(logger.Component("mentorship_registry")),
		now:       deps.Clock,
	}
}

// CreateMentorship pairs mentorID with menteeID after re-checking
// eligibility and uniqueness under the mentor and mentee locks. The
// mentee's waitlist entry is removed in the same unit of work.
func (r *Registry) CreateMentorship(ctx context.Context, mentorID, menteeID mentorship.UserID) (*mentorship.Mentorship, error) {
	if !mentorID.IsValid() || !menteeID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}
	if mentorID == menteeID {
		return nil, shared.ErrSelfMentorship
	}

	score, err := r.compatibility(ctx, mentorID, menteeID)
	if err != nil {
		return nil, err
	}
	return r.create(ctx, mentorID, menteeID, score)
}

func (r *Registry) create(ctx context.Context, mentorID, menteeID mentorship.UserID, score float64) (*mentorship.Mentorship, error) {
	var created *mentorship.Mentorship

	err := r.store.Within(ctx, []mentorship.UserID{mentorID, menteeID}, func(ctx context.Context, tx mentorship.Repositories) error {
		cand, err := tx.Candidates.GetCandidate(ctx, mentorID)
		if err != nil {
			return fmt.Errorf("load mentor: %w", err)
		}
		if e := r.policy.Evaluate(cand); !e.Eligible {
			return shared.NotEligible(e.Reason)
		}

		pair, err := tx.Mentorships.FindActive(ctx, mentorID, menteeID)
		if err != nil {
			return fmt.Errorf("find active pair: %w", err)
		}
		if pair != nil {
			return shared.ErrAlreadyActiveMentorship
		}

		current, err := tx.Mentorships.FindActiveByMentee(ctx, menteeID)
		if err != nil {
			return fmt.Errorf("find active mentee: %w", err)
		}
		if current != nil {
			return shared.ErrAlreadyHasMentor
		}

		m, err := mentorship.NewMentorship(mentorship.NewMentorshipParams{
			ID:                 r.ids.NewID(),
			MentorID:           mentorID,
			MenteeID:           menteeID,
			CompatibilityScore: score,
			MatchedAt:          r.now(),
		})
		if err != nil {
			return err
		}
		if err := tx.Mentorships.Insert(ctx, m); err != nil {
			return err
		}
		if _, err := tx.Waitlist.Delete(ctx, menteeID); err != nil {
			return fmt.Errorf("remove waitlist entry: %w", err)
		}

		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("mentorship created",
		logger.MentorshipID(created.ID),
		logger.MentorID(mentorID.String()),
		logger.MenteeID(menteeID.String()),
		logger.Score(created.CompatibilityScore),
	)
	r.notifyNewMentee(ctx, created)

	return created, nil
}

// Delivery failure never undoes the committed match.
func (r *Registry) notifyNewMentee(ctx context.Context, m *mentorship.Mentorship) {
	name := m.MenteeID.String()
	if p, err := r.profiles.GetProfile(ctx, m.MenteeID); err == nil {
		name = p.DisplayName()
	}

	if err := r.notifier.NotifyNewMentee(ctx, m.MentorID, m.MenteeID, name); err != nil {
		r.log.Warn("failed to notify mentor about new mentee",
			logger.MentorshipID(m.ID),
			logger.MentorID(m.MentorID.String()),
			logger.Err(err),
		)
	}
}

func (r *Registry) compatibility(ctx context.Context, mentorID, menteeID mentorship.UserID) (float64, error) {
	sets, err := r.interests.GetInterestSets(ctx, []mentorship.UserID{mentorID, menteeID})
	if err != nil {
		return 0, fmt.Errorf("load interests: %w", err)
	}
	return mentorship.Score(sets[menteeID], sets[mentorID]), nil
}

// CompleteMentorship ends an active mentorship on behalf of a participant.
func (r *Registry) CompleteMentorship(ctx context.Context, mentorshipID string, callerID mentorship.UserID) (*mentorship.Mentorship, error) {
	return r.transition(ctx, mentorshipID, func(m *mentorship.Mentorship) error {
		return m.Complete(callerID, r.now())
	})
}

// CancelMentorship cancels an active mentorship on behalf of a participant.
func (r *Registry) CancelMentorship(ctx context.Context, mentorshipID string, callerID mentorship.UserID, reason string) (*mentorship.Mentorship, error) {
	return r.transition(ctx, mentorshipID, func(m *mentorship.Mentorship) error {
		return m.Cancel(callerID, reason, r.now())
	})
}

func (r *Registry) transition(ctx context.Context, mentorshipID string, apply func(*mentorship.Mentorship) error) (*mentorship.Mentorship, error) {
	var updated *mentorship.Mentorship

	err := r.store.Within(ctx, nil, func(ctx context.Context, tx mentorship.Repositories) error {
		m, err := tx.Mentorships.FindByID(ctx, mentorshipID)
		if err != nil {
			return err
		}
		if err := apply(m); err != nil {
			return err
		}
		if err := tx.Mentorships.UpdateStatus(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("mentorship ended",
		logger.MentorshipID(updated.ID),
		logger.String("status", string(updated.Status)),
	)
	return updated, nil
}
