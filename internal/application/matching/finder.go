package matching

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

// MatchFinder selects the best available mentor for a mentee.
type MatchFinder struct {
	store       mentorship.Store
	profiles    mentorship.ProfileProvider
	interests   mentorship.InterestSetProvider
	eligibility *EligibilityChecker
	policy      mentorship.Policy
}

// NewMatchFinder creates a finder.
func NewMatchFinder(deps Dependencies, eligibility *EligibilityChecker) *MatchFinder {
	return &MatchFinder{
		store:       deps.Store,
		profiles:    deps.Profiles,
		interests:   deps.Interests,
		eligibility: eligibility,
		policy:      deps.Policy,
	}
}

// FindBestMentor returns the highest ranked eligible mentor, or nil when
// nobody is eligible. Ties go to the lowest mentor id.
func (f *MatchFinder) FindBestMentor(ctx context.Context, menteeID mentorship.UserID) (*mentorship.Match, error) {
	ranked, err := f.RankMentors(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	best, ok := ranked.Best()
	if !ok {
		return nil, nil
	}
	return &best, nil
}

// RankMentors scores every eligible mentor for menteeID, best first.
func (f *MatchFinder) RankMentors(ctx context.Context, menteeID mentorship.UserID) (mentorship.MatchList, error) {
	all, err := f.store.Repositories().Candidates.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	others := make([]mentorship.MentorCandidate, 0, len(all))
	for _, c := range all {
		if c.UserID != menteeID {
			others = append(others, c)
		}
	}
	eligible := f.eligibility.Eligible(others)
	if len(eligible) == 0 {
		return nil, nil
	}

	menteeUniversity, err := f.university(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	menteeInterests, err := f.interests.GetInterests(ctx, menteeID)
	if err != nil {
		return nil, fmt.Errorf("load mentee interests: %w", err)
	}

	ids := make([]mentorship.UserID, len(eligible))
	for i, c := range eligible {
		ids[i] = c.UserID
	}
	sets, err := f.interests.GetInterestSets(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load mentor interests: %w", err)
	}

	list := make(mentorship.MatchList, 0, len(eligible))
	for _, c := range eligible {
		similarity := mentorship.Score(menteeInterests, sets[c.UserID])
		list = append(list, mentorship.Match{
			MentorID:      c.UserID,
			Compatibility: similarity,
			Total:         f.policy.RankingScore(similarity, menteeUniversity, c.University),
		})
	}
	return list.Sorted(), nil
}

// A mentee without a profile simply gets no affinity bonus.
func (f *MatchFinder) university(ctx context.Context, userID mentorship.UserID) (string, error) {
	p, err := f.profiles.GetProfile(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("load mentee profile: %w", err)
	}
	return p.University, nil
}
