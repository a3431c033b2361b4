// Package scoring turns captured responses into per-dimension and composite
// scores. Every function here is pure: empty input scores 0, never errors,
// and recomputation is always safe.
package scoring

import (
	"github.com/bambinounos/psicoeval/internal/models"
)

// LikertItem is one answered Likert question, detached from storage.
type LikertItem struct {
	Dimension models.Dimension
	Value     int
	Reversed  bool
}

// AdjustedValue applies item inversion on the 5-point scale: a reversed item
// answered v scores 6 - v.
func AdjustedValue(value int, reversed bool) float64 {
	if reversed {
		return float64(6 - value)
	}
	return float64(value)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// dimensionMeans averages adjusted values per dimension, restricted to the
// given dimensions. Unanswered dimensions yield 0.
func dimensionMeans(items []LikertItem, dims []models.Dimension) map[models.Dimension]float64 {
	buckets := make(map[models.Dimension][]float64, len(dims))
	for _, d := range dims {
		buckets[d] = nil
	}
	for _, it := range items {
		if _, ok := buckets[it.Dimension]; !ok {
			continue
		}
		buckets[it.Dimension] = append(buckets[it.Dimension], AdjustedValue(it.Value, it.Reversed))
	}
	out := make(map[models.Dimension]float64, len(dims))
	for d, vals := range buckets {
		out[d] = mean(vals)
	}
	return out
}

// BigFiveScores holds the five OCEAN dimension means on the 1-5 scale.
type BigFiveScores struct {
	Responsibility float64
	Agreeableness  float64
	Neuroticism    float64
	Openness       float64
	Extraversion   float64
}

// BigFive aggregates Big Five responses per dimension with item inversion.
func BigFive(items []LikertItem) BigFiveScores {
	m := dimensionMeans(items, []models.Dimension{
		models.DimBFResponsibility,
		models.DimBFAgreeableness,
		models.DimBFNeuroticism,
		models.DimBFOpenness,
		models.DimBFExtraversion,
	})
	return BigFiveScores{
		Responsibility: m[models.DimBFResponsibility],
		Agreeableness:  m[models.DimBFAgreeableness],
		Neuroticism:    m[models.DimBFNeuroticism],
		Openness:       m[models.DimBFOpenness],
		Extraversion:   m[models.DimBFExtraversion],
	}
}

// CommitmentScores holds the Allen & Meyer subdimension means. Total averages
// the affective and normative components; continuance is reported but not
// part of the total.
type CommitmentScores struct {
	Affective   float64
	Continuance float64
	Normative   float64
	Total       float64
}

// Commitment aggregates organizational-commitment responses per subdimension.
func Commitment(items []LikertItem) CommitmentScores {
	m := dimensionMeans(items, []models.Dimension{
		models.DimCommitAffective,
		models.DimCommitContinuance,
		models.DimCommitNormative,
	})
	s := CommitmentScores{
		Affective:   m[models.DimCommitAffective],
		Continuance: m[models.DimCommitContinuance],
		Normative:   m[models.DimCommitNormative],
	}
	if s.Affective != 0 || s.Normative != 0 {
		s.Total = (s.Affective + s.Normative) / 2
	}
	return s
}

// LikertMean averages all items regardless of dimension, with inversion.
// Used for the obedience scale and the social-desirability scale.
func LikertMean(items []LikertItem) float64 {
	values := make([]float64, 0, len(items))
	for _, it := range items {
		values = append(values, AdjustedValue(it.Value, it.Reversed))
	}
	return mean(values)
}
