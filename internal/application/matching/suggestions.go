package matching

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
)

// Suggestion limits.
const (
	DefaultSuggestionLimit = 10
	MaxSuggestionLimit     = 50
)

// SuggestionEngine ranks users by shared interests for connection discovery.
// It does not look at mentorship state.
type SuggestionEngine struct {
	profiles    mentorship.ProfileProvider
	interests   mentorship.InterestSetProvider
	connections social.ConnectionReader
	policy      mentorship.Policy
}

// NewSuggestionEngine creates a suggestion engine.
func NewSuggestionEngine(deps Dependencies) *SuggestionEngine {
	return &SuggestionEngine{
		profiles:    deps.Profiles,
		interests:   deps.Interests,
		connections: deps.Connections,
		policy:      deps.Policy,
	}
}

// Suggest returns up to limit users sharing at least one interest with
// userID. Connected users and pending requests in either direction are
// excluded. An incomplete profile yields an empty list and a message.
func (s *SuggestionEngine) Suggest(ctx context.Context, userID mentorship.UserID, limit int) (*social.SuggestionResult, error) {
	if !userID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}
	limit = clampLimit(limit)

	mine, err := s.interests.GetInterests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load interests: %w", err)
	}
	if mine.Len() < s.policy.SuggestionMinInterests {
		return &social.SuggestionResult{
			Suggestions: social.SuggestionList{},
			Message:     fmt.Sprintf(social.MessageCompleteProfile, s.policy.SuggestionMinInterests),
		}, nil
	}

	conns, err := s.connections.ConnectionsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	excluded := social.Exclusions(userID, conns)

	sets, err := s.interests.ListInterestSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}

	list := make(social.SuggestionList, 0)
	common := make(map[mentorship.UserID][]mentorship.InterestID)
	for id, set := range sets {
		if excluded.Contains(id) {
			continue
		}
		overlap := mine.Intersect(set)
		if len(overlap) == 0 {
			continue
		}
		common[id] = overlap
		list = append(list, social.Suggestion{
			UserID: id,
			Score:  mentorship.Score(mine, set),
			Reason: social.SuggestionReason(len(overlap)),
		})
	}

	list.Sort()
	list = list.TopN(limit)

	if err := s.decorate(ctx, list, common); err != nil {
		return nil, err
	}
	return &social.SuggestionResult{Suggestions: list}, nil
}

// decorate attaches interest names and profile details to the final page.
func (s *SuggestionEngine) decorate(ctx context.Context, list social.SuggestionList, common map[mentorship.UserID][]mentorship.InterestID) error {
	wanted := make([]mentorship.InterestID, 0)
	seen := make(map[mentorship.InterestID]struct{})
	for i := range list {
		ids := common[list[i].UserID]
		if len(ids) > s.policy.SuggestionMaxCommon {
			ids = ids[:s.policy.SuggestionMaxCommon]
			common[list[i].UserID] = ids
		}
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				wanted = append(wanted, id)
			}
		}
	}

	names, err := s.interests.InterestNames(ctx, wanted)
	if err != nil {
		return fmt.Errorf("resolve interest names: %w", err)
	}

	for i := range list {
		ids := common[list[i].UserID]
		list[i].CommonInterests = make([]string, 0, len(ids))
		for _, id := range ids {
			list[i].CommonInterests = append(list[i].CommonInterests, names[id])
		}

		p, err := s.profiles.GetProfile(ctx, list[i].UserID)
		switch {
		case err == nil:
			list[i].FullName = p.DisplayName()
			list[i].University = p.University
		case shared.IsNotFound(err):
			list[i].FullName = list[i].UserID.String()
		default:
			return fmt.Errorf("load profile: %w", err)
		}
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultSuggestionLimit
	}
	if limit > MaxSuggestionLimit {
		return MaxSuggestionLimit
	}
	return limit
}
