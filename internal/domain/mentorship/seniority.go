package mentorship

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
)

// ParseSeniority extracts the ordinal seniority level from free text such as
// "4", "4º", "4°" or "4th term". Leading whitespace is ignored; the value
// must start with a digit.
//
// It runs when a profile is written so that the stored value is an integer
// and eligibility checks never deal with text.
func ParseSeniority(raw string) (int, error) {
	s := strings.TrimSpace(raw)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, shared.ErrInvalidSeniority
	}

	// "45abc" is not a seniority; a suffix must start with a non-alphanumeric
	// marker or with an ordinal suffix.
	if rest := s[end:]; rest != "" && !validSuffix(rest) {
		return 0, shared.ErrInvalidSeniority
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0, shared.ErrInvalidSeniority
	}
	return n, nil
}

var ordinalSuffixes = []string{"st", "nd", "rd", "th", "º", "ª", "°"}

func validSuffix(rest string) bool {
	lower := strings.ToLower(rest)
	for _, suf := range ordinalSuffixes {
		if strings.HasPrefix(lower, suf) {
			tail := lower[len(suf):]
			return tail == "" || !isAlnumStart(tail)
		}
	}
	return !isAlnumStart(rest)
}

func isAlnumStart(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}
