package matching

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
)

// EligibilityChecker decides whether a user may act as a mentor.
type EligibilityChecker struct {
	store  mentorship.Store
	policy mentorship.Policy
}

// NewEligibilityChecker creates a checker.
func NewEligibilityChecker(store mentorship.Store, policy mentorship.Policy) *EligibilityChecker {
	return &EligibilityChecker{store: store, policy: policy}
}

// IsEligibleMentor reports whether userID can take another mentee and, if
// not, the first failing rule. Pure read.
func (c *EligibilityChecker) IsEligibleMentor(ctx context.Context, userID mentorship.UserID) (bool, string, error) {
	e, err := c.check(ctx, c.store.Repositories().Candidates, userID)
	if err != nil {
		return false, "", err
	}
	return e.Eligible, e.Reason, nil
}

// check evaluates the candidate as seen by src. Inside a unit of work src
// is the transactional source so the capacity read is consistent with the
// following insert.
func (c *EligibilityChecker) check(ctx context.Context, src mentorship.CandidateSource, userID mentorship.UserID) (mentorship.Eligibility, error) {
	cand, err := src.GetCandidate(ctx, userID)
	if err != nil {
		return mentorship.Eligibility{}, fmt.Errorf("load candidate %s: %w", userID, err)
	}
	return c.policy.Evaluate(cand), nil
}

// Eligible filters candidates down to those passing the policy.
func (c *EligibilityChecker) Eligible(candidates []mentorship.MentorCandidate) []mentorship.MentorCandidate {
	out := make([]mentorship.MentorCandidate, 0, len(candidates))
	for i := range candidates {
		if c.policy.Evaluate(&candidates[i]).Eligible {
			out = append(out, candidates[i])
		}
	}
	return out
}
