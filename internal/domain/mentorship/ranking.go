package mentorship

import "sort"

// Match is a scored mentor for a mentee.
type Match struct {
	MentorID UserID
	// Compatibility is the interest similarity persisted with the mentorship.
	Compatibility float64
	// Total adds the affinity bonus and is used for ranking only.
	Total float64
}

// MatchList is a set of scored mentors.
type MatchList []Match

// Len returns the length of the list.
func (l MatchList) Len() int { return len(l) }

// Less orders by total descending, then mentor id ascending so that ties
// resolve the same way regardless of enumeration order.
func (l MatchList) Less(i, j int) bool {
	if l[i].Total != l[j].Total {
		return l[i].Total > l[j].Total
	}
	return l[i].MentorID < l[j].MentorID
}

// Swap swaps two elements.
func (l MatchList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Best returns the top-ranked match. ok is false for an empty list.
func (l MatchList) Best() (Match, bool) {
	if len(l) == 0 {
		return Match{}, false
	}
	best := l[0]
	for _, m := range l[1:] {
		if m.Total > best.Total || (m.Total == best.Total && m.MentorID < best.MentorID) {
			best = m
		}
	}
	return best, true
}

// Sorted returns a ranked copy.
func (l MatchList) Sorted() MatchList {
	out := make(MatchList, len(l))
	copy(out, l)
	sort.Sort(out)
	return out
}
