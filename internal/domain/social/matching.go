package social

import (
	"fmt"
	"sort"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUGGESTIONS
// ══════════════════════════════════════════════════════════════════════════════

// MessageCompleteProfile is returned instead of suggestions when the
// profile lists too few interests.
const MessageCompleteProfile = "Complete your profile with at least %d interests to receive suggestions"

// Suggestion is a user recommended as a new connection.
type Suggestion struct {
	UserID          mentorship.UserID
	FullName        string
	University      string
	Score           float64
	CommonInterests []string
	Reason          string
	RankPosition    int
}

// SuggestionReason formats the human-readable reason for n shared interests.
func SuggestionReason(n int) string {
	return fmt.Sprintf("You share %d interest(s) in common", n)
}

// SuggestionList is a ranked list of suggestions.
type SuggestionList []Suggestion

// Len returns the length of the list.
func (l SuggestionList) Len() int { return len(l) }

// Less orders by score descending, then user id ascending.
func (l SuggestionList) Less(i, j int) bool {
	if l[i].Score != l[j].Score {
		return l[i].Score > l[j].Score
	}
	return l[i].UserID < l[j].UserID
}

// Swap swaps two elements.
func (l SuggestionList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Sort ranks the list and updates positions.
func (l SuggestionList) Sort() {
	sort.Sort(l)
	for i := range l {
		l[i].RankPosition = i + 1
	}
}

// TopN returns the first n entries.
func (l SuggestionList) TopN(n int) SuggestionList {
	if n < 0 || n >= len(l) {
		return l
	}
	return l[:n]
}

// SuggestionResult is the answer to a suggestion request.
type SuggestionResult struct {
	Suggestions SuggestionList
	Message     string
}
