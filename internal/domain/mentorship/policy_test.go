package mentorship

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestPolicy_Evaluate(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name     string
		c        *MentorCandidate
		eligible bool
		reason   string
	}{
		{"missing profile", nil, false, ReasonProfileNotFound},
		{"unparsed seniority", &MentorCandidate{UserID: "a"}, false, ReasonInvalidSeniority},
		{"junior", &MentorCandidate{UserID: "a", Seniority: intPtr(3)}, false, "minimum seniority is 4 (current: 3)"},
		{"full", &MentorCandidate{UserID: "a", Seniority: intPtr(8), ActiveMenteeCount: 3}, false, "mentor has reached the limit of 3 mentees"},
		{"seniority checked before capacity", &MentorCandidate{UserID: "a", Seniority: intPtr(2), ActiveMenteeCount: 3}, false, "minimum seniority is 4 (current: 2)"},
		{"boundary", &MentorCandidate{UserID: "a", Seniority: intPtr(4), ActiveMenteeCount: 2}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Evaluate(tt.c)
			assert.Equal(t, tt.eligible, got.Eligible)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestPolicy_InjectedValues(t *testing.T) {
	p := Policy{MaxMenteesPerMentor: 1, MinSeniority: 2, AffinityBonus: 5, SuggestionMaxCommon: 1}

	assert.True(t, p.Evaluate(&MentorCandidate{Seniority: intPtr(2)}).Eligible)
	assert.False(t, p.Evaluate(&MentorCandidate{Seniority: intPtr(2), ActiveMenteeCount: 1}).Eligible)
	assert.Equal(t, 55.0, p.RankingScore(50, "UFMG", " ufmg "))
	assert.Equal(t, 50.0, p.RankingScore(50, "", ""))
	assert.Equal(t, 0, p.AvailableSlots(MentorCandidate{ActiveMenteeCount: 4}))
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	err := Policy{MaxMenteesPerMentor: 0, MinSeniority: 0, AffinityBonus: -1, SuggestionMaxCommon: 0, WaitlistTTL: -time.Second}.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "max mentees")
		assert.Contains(t, err.Error(), "affinity bonus")
		assert.Contains(t, err.Error(), "waitlist TTL")
	}
}

func TestPolicy_ExpiryCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, ok := DefaultPolicy().ExpiryCutoff(now)
	assert.False(t, ok)

	p := DefaultPolicy()
	p.WaitlistTTL = 24 * time.Hour
	cutoff, ok := p.ExpiryCutoff(now)
	assert.True(t, ok)
	assert.Equal(t, now.Add(-24*time.Hour), cutoff)
}
