package mentorship

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	a := NewInterestSet(1, 2, 3)
	b := NewInterestSet(1, 2)

	tests := []struct {
		name string
		a, b InterestSet
		want float64
	}{
		{"subset", a, b, 66.67},
		{"identical", a, NewInterestSet(3, 2, 1), 100},
		{"disjoint", a, NewInterestSet(7, 8), 0},
		{"empty left", NewInterestSet(), b, 0},
		{"both empty", NewInterestSet(), NewInterestSet(), 0},
		{"nil set", nil, b, 0},
		{"one of three", NewInterestSet(1), a, 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.a, tt.b))
			assert.Equal(t, Score(tt.a, tt.b), Score(tt.b, tt.a), "score must be symmetric")
		})
	}
}

func TestScore_IdenticalNonEmptyIsMax(t *testing.T) {
	for n := 1; n <= 10; n++ {
		ids := make([]InterestID, n)
		for i := range ids {
			ids[i] = InterestID(i * 7)
		}
		s := NewInterestSet(ids...)
		assert.Equal(t, MaxScore, Score(s, s))
	}
}

func TestInterestSet_Intersect(t *testing.T) {
	a := NewInterestSet(5, 1, 3, 9)
	b := NewInterestSet(9, 3, 4)

	assert.Equal(t, []InterestID{3, 9}, a.Intersect(b))
	assert.Equal(t, []InterestID{3, 9}, b.Intersect(a))
	assert.Empty(t, a.Intersect(nil))
	assert.Equal(t, []InterestID{1, 3, 5, 9}, a.IDs())
}

func TestNewInterestSet_DropsDuplicates(t *testing.T) {
	s := NewInterestSet(1, 1, 2)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(3))
}
