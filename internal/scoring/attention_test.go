package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bambinounos/psicoeval/internal/models"
)

func TestDifferenceF1(t *testing.T) {
	tests := []struct {
		name     string
		found    []string
		expected []string
		want     float64
	}{
		{"perfect answer", []string{"a", "b"}, []string{"a", "b"}, 1},
		{"missed half", []string{"a"}, []string{"a", "b"}, 2.0 / 3.0},
		{"noisy answer", []string{"a", "b", "x", "y"}, []string{"a", "b"}, 2 * 0.5 * 1.0 / 1.5},
		{"all wrong", []string{"x"}, []string{"a"}, 0},
		{"nothing flagged", nil, []string{"a"}, 0},
		{"nothing expected, nothing flagged", nil, nil, 1},
		{"nothing expected, false positives", []string{"x"}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, DifferenceF1(tt.found, tt.expected), 1e-9)
		})
	}
}

func TestVerificationCredit(t *testing.T) {
	tests := []struct {
		name     string
		found    []string
		expected []string
		want     float64
	}{
		{"perfect answer", []string{"a", "b"}, []string{"a", "b"}, 1},
		{"missed half", []string{"a"}, []string{"a", "b"}, 0.5},
		{"false positives earn nothing but cost nothing", []string{"a", "x", "y"}, []string{"a", "b"}, 0.5},
		{"duplicate flags count once", []string{"a", "a"}, []string{"a", "b"}, 0.5},
		{"all wrong", []string{"x"}, []string{"a"}, 0},
		{"nothing flagged", nil, []string{"a"}, 0},
		{"nothing expected, nothing flagged", nil, nil, 1},
		{"nothing expected, false positives", []string{"x"}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, VerificationCredit(tt.found, tt.expected), 1e-9)
		})
	}
}

// Verification is recall-only: a noisy answer that would lose F1 precision
// keeps full partial credit for every real inconsistency found.
func TestVerificationCreditIgnoresPrecision(t *testing.T) {
	found := []string{"a", "x", "y"}
	expected := []string{"a", "b"}
	require.Greater(t, VerificationCredit(found, expected), DifferenceF1(found, expected))
}

func TestAttentionComposite(t *testing.T) {
	items := []AttentionItem{
		{Subtype: models.AttentionComparison, Partial: 1.0},
		{Subtype: models.AttentionComparison, Partial: 0.5},
		{Subtype: models.AttentionVerification, Partial: 0.8},
		{Subtype: models.AttentionSequence, Correct: true},
		{Subtype: models.AttentionSequence, Correct: false},
	}
	s := Attention(items)

	require.InDelta(t, 75.0, s.Comparison, 1e-9)
	require.InDelta(t, 80.0, s.Verification, 1e-9)
	require.InDelta(t, 50.0, s.Sequences, 1e-9)
	require.InDelta(t, 75.0*0.40+80.0*0.35+50.0*0.25, s.Composite, 1e-9)
}

func TestAttentionMissingSubtasksScoreZero(t *testing.T) {
	items := []AttentionItem{
		{Subtype: models.AttentionComparison, Partial: 1.0},
	}
	s := Attention(items)
	require.InDelta(t, 100.0, s.Comparison, 1e-9)
	require.Zero(t, s.Verification)
	require.Zero(t, s.Sequences)
	require.InDelta(t, 40.0, s.Composite, 1e-9)
}

func TestAttentionEmpty(t *testing.T) {
	require.Zero(t, Attention(nil).Composite)
}
