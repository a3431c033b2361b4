package selector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bambinounos/psicoeval/internal/models"
)

func bankTest(kind models.TestKind, quota int, questions []models.Question) models.Test {
	return models.Test{
		ID:           1,
		Kind:         kind,
		Questions:    questions,
		BankSize:     len(questions),
		ItemsToApply: quota,
	}
}

func likertQuestions(n int, dim models.Dimension, startID uint) []models.Question {
	out := make([]models.Question, n)
	for i := range out {
		out[i] = models.Question{ID: startID + uint(i), TestID: 1, Dimension: dim}
	}
	return out
}

func TestSelectWholeBankWhenQuotaZero(t *testing.T) {
	questions := likertQuestions(5, models.DimBFResponsibility, 1)
	got := NewSeeded(1).Select([]models.Test{bankTest(models.KindBigFive, 0, questions)})
	require.Equal(t, []int64{1, 2, 3, 4, 5}, got)
}

func TestSelectWholeBankWhenQuotaCoversIt(t *testing.T) {
	questions := likertQuestions(4, models.DimBFResponsibility, 1)
	got := NewSeeded(1).Select([]models.Test{bankTest(models.KindBigFive, 10, questions)})
	require.Len(t, got, 4)
}

func TestSelectRespectsQuota(t *testing.T) {
	questions := append(
		likertQuestions(6, models.DimBFResponsibility, 1),
		likertQuestions(6, models.DimBFNeuroticism, 100)...,
	)
	got := NewSeeded(7).Select([]models.Test{bankTest(models.KindBigFive, 6, questions)})
	require.Len(t, got, 6)

	seen := map[int64]bool{}
	for _, id := range got {
		require.False(t, seen[id], "question selected twice")
		seen[id] = true
	}
}

func TestSelectBalancesDimensions(t *testing.T) {
	questions := append(
		likertQuestions(10, models.DimBFResponsibility, 1),
		likertQuestions(2, models.DimBFNeuroticism, 100)...,
	)
	got := NewSeeded(3).Select([]models.Test{bankTest(models.KindBigFive, 4, questions)})
	require.Len(t, got, 4)

	neur := 0
	for _, id := range got {
		if id >= 100 {
			neur++
		}
	}
	// Round-robin fill gives the small dimension a share despite the
	// much larger responsibility pool.
	require.GreaterOrEqual(t, neur, 1)
}

func TestSelectForceIncludesConsistencyPairs(t *testing.T) {
	pairA, pairB := uint(50), uint(51)
	questions := likertQuestions(8, models.DimBFResponsibility, 1)
	questions = append(questions,
		models.Question{ID: pairA, TestID: 1, Dimension: models.DimBFResponsibility, ConsistencyPairID: &pairB},
		models.Question{ID: pairB, TestID: 1, Dimension: models.DimBFResponsibility, ConsistencyPairID: &pairA, Reversed: true},
	)

	for seed := int64(0); seed < 20; seed++ {
		got := NewSeeded(seed).Select([]models.Test{bankTest(models.KindBigFive, 4, questions)})
		require.Contains(t, got, int64(pairA), "seed %d dropped a pair member", seed)
		require.Contains(t, got, int64(pairB), "seed %d dropped a pair member", seed)
	}
}

func TestSelectPairsMayExceedQuota(t *testing.T) {
	// Three pairs, quota 2: all six members stay, quota yields.
	questions := make([]models.Question, 0, 6)
	for i := uint(0); i < 3; i++ {
		a, b := 10+i*2, 11+i*2
		questions = append(questions,
			models.Question{ID: a, TestID: 1, Dimension: models.DimBFResponsibility, ConsistencyPairID: &b},
			models.Question{ID: b, TestID: 1, Dimension: models.DimBFResponsibility, ConsistencyPairID: &a},
		)
	}
	got := NewSeeded(1).Select([]models.Test{bankTest(models.KindBigFive, 2, questions)})
	require.Len(t, got, 6)
}

func TestSelectDeterministicForSeed(t *testing.T) {
	questions := append(
		likertQuestions(10, models.DimBFResponsibility, 1),
		likertQuestions(10, models.DimBFOpenness, 100)...,
	)
	tests := []models.Test{bankTest(models.KindBigFive, 8, questions)}

	a := NewSeeded(42).Select(tests)
	b := NewSeeded(42).Select(tests)
	require.Equal(t, a, b)
}

func TestSelectConcatenatesTestsInCatalogOrder(t *testing.T) {
	t1 := bankTest(models.KindBigFive, 0, likertQuestions(2, models.DimBFResponsibility, 1))
	t2 := models.Test{
		ID:        2,
		Kind:      models.KindObedience,
		Questions: []models.Question{{ID: 20, TestID: 2, Dimension: models.DimObedDiscipline}},
	}
	got := NewSeeded(1).Select([]models.Test{t1, t2})
	require.Equal(t, []int64{1, 2, 20}, got)
}
