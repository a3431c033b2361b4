package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bambinounos/psicoeval/internal/models"
)

func TestMemoryScore(t *testing.T) {
	items := []MemoryItem{
		{Correct: true, Length: 3},
		{Correct: true, Length: 4},
		{Correct: false, Length: 5},
		{Correct: false, Length: 6},
	}
	s := Memory(items)

	require.InDelta(t, 50.0, s.Percent, 1e-9)
	// Max span counts only correctly reproduced sequences, not attempts.
	require.Equal(t, 4, s.MaxSpan)
}

func TestMemoryEmpty(t *testing.T) {
	s := Memory(nil)
	require.Zero(t, s.Percent)
	require.Zero(t, s.MaxSpan)
}

func TestSequencesMatch(t *testing.T) {
	tests := []struct {
		name      string
		presented []int
		answered  []int
		want      bool
	}{
		{"exact match", []int{4, 9, 2}, []int{4, 9, 2}, true},
		{"wrong order", []int{4, 9, 2}, []int{9, 4, 2}, false},
		{"wrong length", []int{4, 9, 2}, []int{4, 9}, false},
		{"empty both", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SequencesMatch(tt.presented, tt.answered))
		})
	}
}

func TestMatricesWeighting(t *testing.T) {
	// Weights 1, 1.1, 1.2: first and third correct.
	got := Matrices([]bool{true, false, true})
	require.InDelta(t, (1.0+1.2)/3.3*100, got, 1e-9)
}

func TestMatricesAllAndNone(t *testing.T) {
	require.InDelta(t, 100.0, Matrices([]bool{true, true, true}), 1e-9)
	require.Zero(t, Matrices([]bool{false, false}))
	require.Zero(t, Matrices(nil))
}

func TestMatricesLaterItemsWeighMore(t *testing.T) {
	onlyFirst := Matrices([]bool{true, false, false, false})
	onlyLast := Matrices([]bool{false, false, false, true})
	require.Greater(t, onlyLast, onlyFirst)
}

func TestSituationalScore(t *testing.T) {
	items := []SituationalItem{
		{Dimension: models.DimSitResponsibility, Value: 5},
		{Dimension: models.DimSitResponsibility, Value: 3},
		{Dimension: models.DimSitObedience, Value: 5},
		{Dimension: models.DimSitLoyalty, Value: 1},
	}
	s := Situational(items)

	require.InDelta(t, 4.0, s.Responsibility, 1e-9)
	require.InDelta(t, 5.0, s.Obedience, 1e-9)
	require.InDelta(t, 1.0, s.Loyalty, 1e-9)
	require.InDelta(t, (4.0+5.0+1.0)/15.0*100, s.Percent, 1e-9)
}

func TestSituationalPerfect(t *testing.T) {
	items := []SituationalItem{
		{Dimension: models.DimSitResponsibility, Value: 5},
		{Dimension: models.DimSitObedience, Value: 5},
		{Dimension: models.DimSitLoyalty, Value: 5},
	}
	require.InDelta(t, 100.0, Situational(items).Percent, 1e-9)
}
