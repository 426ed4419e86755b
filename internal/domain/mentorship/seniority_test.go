package mentorship

import (
	"testing"

	"github.com/alem-hub/mentorship-engine/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeniority(t *testing.T) {
	valid := map[string]int{
		"4":          4,
		" 5 ":        5,
		"4º":         4,
		"4°":         4,
		"4ª":         4,
		"4th term":   4,
		"1st":        1,
		"2nd term":   2,
		"3rd":        3,
		"10th":       10,
		"6 semestre": 6,
		"7º semestre": 7,
		"8-term":     8,
	}
	for raw, want := range valid {
		got, err := ParseSeniority(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	invalid := []string{"", "   ", "fourth", "term 4", "4abc", "0", "45x", "th"}
	for _, raw := range invalid {
		_, err := ParseSeniority(raw)
		assert.ErrorIs(t, err, shared.ErrInvalidSeniority, raw)
	}
}

func TestProfileUpdate_ToProfile(t *testing.T) {
	p := ProfileUpdate{UserID: "u1", FullName: " Ana ", University: "USP", SeniorityRaw: "5º"}.ToProfile()
	require.NotNil(t, p.Seniority)
	assert.Equal(t, 5, *p.Seniority)
	assert.Equal(t, "Ana", p.FullName)
	assert.Equal(t, "5º", p.SeniorityRaw)

	bad := ProfileUpdate{UserID: "u2", SeniorityRaw: "senior"}.ToProfile()
	assert.Nil(t, bad.Seniority)
	assert.Equal(t, "u2", bad.DisplayName())
}
