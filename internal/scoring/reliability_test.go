package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsistency(t *testing.T) {
	tests := []struct {
		name  string
		pairs []ConsistencyPair
		want  float64
	}{
		{"identical answers", []ConsistencyPair{{A: 4, B: 4}}, 100},
		{"maximum spread", []ConsistencyPair{{A: 1, B: 5}}, 0},
		{"one point apart", []ConsistencyPair{{A: 4, B: 3}}, 75},
		{"mixed pairs average", []ConsistencyPair{{A: 4, B: 4}, {A: 1, B: 5}}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Consistency(tt.pairs)
			require.NotNil(t, got)
			require.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestConsistencyUndeterminedWithoutPairs(t *testing.T) {
	require.Nil(t, Consistency(nil))
}

func TestConsistencyBounds(t *testing.T) {
	pairs := []ConsistencyPair{{A: 1, B: 5}, {A: 5, B: 1}, {A: 3, B: 3}}
	got := Consistency(pairs)
	require.NotNil(t, got)
	require.GreaterOrEqual(t, *got, 0.0)
	require.LessOrEqual(t, *got, 100.0)
}

func TestReliable(t *testing.T) {
	low := 59.9
	ok := 60.0
	tests := []struct {
		name         string
		desirability float64
		consistency  *float64
		want         bool
	}{
		{"clean evaluation", 3.0, &ok, true},
		{"desirability exactly at cap", 4.0, &ok, true},
		{"desirability over cap", 4.1, &ok, false},
		{"consistency below floor", 3.0, &low, false},
		{"consistency at floor", 3.0, &ok, true},
		{"no pairs answered does not penalize", 3.0, nil, true},
		{"both flags tripped", 5.0, &low, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Reliable(tt.desirability, tt.consistency))
		})
	}
}
