package scoring

import "github.com/bambinounos/psicoeval/internal/models"

// MemoryItem is one working-memory trial.
type MemoryItem struct {
	Correct bool
	Length  int
}

// MemoryScore is the aggregated memory result.
type MemoryScore struct {
	Percent float64
	MaxSpan int // longest correctly reproduced sequence, not longest attempted
}

// Memory computes the percentage of exact sequence matches and the max span.
func Memory(items []MemoryItem) MemoryScore {
	if len(items) == 0 {
		return MemoryScore{}
	}
	correct := 0
	maxSpan := 0
	for _, it := range items {
		if it.Correct {
			correct++
			if it.Length > maxSpan {
				maxSpan = it.Length
			}
		}
	}
	return MemoryScore{
		Percent: float64(correct) / float64(len(items)) * 100,
		MaxSpan: maxSpan,
	}
}

// SequencesMatch reports whether the candidate reproduced the presented
// sequence exactly. Used at response-capture time to derive correctness.
func SequencesMatch(presented, answered []int) bool {
	if len(presented) != len(answered) {
		return false
	}
	for i := range presented {
		if presented[i] != answered[i] {
			return false
		}
	}
	return true
}

// Matrices computes the difficulty-weighted percent correct. Item i
// (0-indexed, bank order) carries weight 1 + i*0.1 so later, harder items
// count proportionally more.
func Matrices(correct []bool) float64 {
	if len(correct) == 0 {
		return 0
	}
	totalWeight := 0.0
	weightedCorrect := 0.0
	for i, ok := range correct {
		weight := 1 + float64(i)*0.1
		totalWeight += weight
		if ok {
			weightedCorrect += weight
		}
	}
	return weightedCorrect / totalWeight * 100
}

// SituationalItem is one scenario answer.
type SituationalItem struct {
	Dimension models.Dimension
	Value     int
}

// SituationalScore holds per-dimension means (0-5) and the normalized total.
type SituationalScore struct {
	Responsibility float64
	Obedience      float64
	Loyalty        float64
	Percent        float64
}

// situationalMaxSum is the theoretical maximum of the three dimension means.
const situationalMaxSum = 15.0

// Situational averages each dimension and normalizes the summed means to
// 0-100 against the theoretical maximum so the score is comparable with the
// profile thresholds.
func Situational(items []SituationalItem) SituationalScore {
	m := dimensionMeans(toLikert(items), []models.Dimension{
		models.DimSitResponsibility,
		models.DimSitObedience,
		models.DimSitLoyalty,
	})
	s := SituationalScore{
		Responsibility: m[models.DimSitResponsibility],
		Obedience:      m[models.DimSitObedience],
		Loyalty:        m[models.DimSitLoyalty],
	}
	s.Percent = (s.Responsibility + s.Obedience + s.Loyalty) / situationalMaxSum * 100
	return s
}

// Situational answers carry no reversed items; reuse the Likert bucketing.
func toLikert(items []SituationalItem) []LikertItem {
	out := make([]LikertItem, len(items))
	for i, it := range items {
		out[i] = LikertItem{Dimension: it.Dimension, Value: it.Value}
	}
	return out
}
