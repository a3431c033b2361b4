package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bambinounos/psicoeval/internal/models"
)

func TestAdjustedValue(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		reversed bool
		want     float64
	}{
		{"plain item keeps its value", 4, false, 4},
		{"reversed 1 becomes 5", 1, true, 5},
		{"reversed 5 becomes 1", 5, true, 1},
		{"reversed midpoint is fixed", 3, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, AdjustedValue(tt.value, tt.reversed))
		})
	}
}

func TestBigFiveDimensionMeans(t *testing.T) {
	items := []LikertItem{
		{Dimension: models.DimBFResponsibility, Value: 5},
		{Dimension: models.DimBFResponsibility, Value: 2, Reversed: true}, // counts as 4
		{Dimension: models.DimBFNeuroticism, Value: 2},
		{Dimension: models.DimBFAgreeableness, Value: 3},
	}
	s := BigFive(items)

	require.InDelta(t, 4.5, s.Responsibility, 1e-9)
	require.InDelta(t, 2.0, s.Neuroticism, 1e-9)
	require.InDelta(t, 3.0, s.Agreeableness, 1e-9)
	require.Zero(t, s.Openness, "unanswered dimension scores 0")
	require.Zero(t, s.Extraversion)
}

func TestBigFiveEmpty(t *testing.T) {
	s := BigFive(nil)
	require.Zero(t, s.Responsibility)
	require.Zero(t, s.Neuroticism)
}

func TestCommitmentTotalExcludesContinuance(t *testing.T) {
	items := []LikertItem{
		{Dimension: models.DimCommitAffective, Value: 4},
		{Dimension: models.DimCommitAffective, Value: 5},
		{Dimension: models.DimCommitContinuance, Value: 1},
		{Dimension: models.DimCommitNormative, Value: 3},
	}
	s := Commitment(items)

	require.InDelta(t, 4.5, s.Affective, 1e-9)
	require.InDelta(t, 1.0, s.Continuance, 1e-9)
	require.InDelta(t, 3.0, s.Normative, 1e-9)
	// Total averages affective and normative only.
	require.InDelta(t, 3.75, s.Total, 1e-9)
}

func TestCommitmentEmptyTotal(t *testing.T) {
	require.Zero(t, Commitment(nil).Total)
}

func TestLikertMeanWithInversion(t *testing.T) {
	items := []LikertItem{
		{Value: 5},
		{Value: 1, Reversed: true}, // 5
		{Value: 2},
	}
	require.InDelta(t, 4.0, LikertMean(items), 1e-9)
	require.Zero(t, LikertMean(nil))
}
