package mentorship

import (
	"math"
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// IDENTIFIERS
// ══════════════════════════════════════════════════════════════════════════════

// UserID identifies a user of the platform. Opaque to the engine.
type UserID string

// IsValid reports whether the id is non-empty.
func (id UserID) IsValid() bool {
	return strings.TrimSpace(string(id)) != ""
}

// String returns the string representation.
func (id UserID) String() string {
	return string(id)
}

// InterestID identifies an interest tag.
type InterestID int64

// ══════════════════════════════════════════════════════════════════════════════
// INTEREST SET
// ══════════════════════════════════════════════════════════════════════════════

// InterestSet is the set of interests attached to a user profile.
// The zero value is an empty set.
type InterestSet map[InterestID]struct{}

// NewInterestSet builds a set from ids, dropping duplicates.
func NewInterestSet(ids ...InterestID) InterestSet {
	s := make(InterestSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Len returns the number of interests.
func (s InterestSet) Len() int {
	return len(s)
}

// Contains reports whether id is in the set.
func (s InterestSet) Contains(id InterestID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted ascending.
func (s InterestSet) IDs() []InterestID {
	out := make([]InterestID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Intersect returns the shared members sorted ascending.
func (s InterestSet) Intersect(other InterestSet) []InterestID {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make([]InterestID, 0, len(small))
	for id := range small {
		if large.Contains(id) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// SIMILARITY SCORER
// ══════════════════════════════════════════════════════════════════════════════

// MaxScore is the score of two identical non-empty sets.
const MaxScore = 100.0

// Score returns the Jaccard similarity of a and b scaled to [0, 100] and
// rounded to two decimals. An empty operand yields 0.
func Score(a, b InterestSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared := len(a.Intersect(b))
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}

	return round2(float64(shared) / float64(union) * MaxScore)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
