package scoring

import (
	"errors"

	"github.com/bambinounos/psicoeval/internal/apperr"
	"github.com/bambinounos/psicoeval/internal/models"
	"github.com/bambinounos/psicoeval/internal/repository"
)

// Recompute runs the whole scoring pipeline for one evaluation: reliability,
// per-instrument scores, composite indices and the automatic verdict. The
// evaluation's single FinalResult row is updated in place, so re-running on
// unchanged answers is idempotent. defaultProfile names the target profile
// used when the evaluation has none assigned.
//
// All sub-scores are cheap pure functions; a partial failure is recovered by
// re-running the pipeline, not by checkpointing.
func Recompute(eval *models.Evaluation, defaultProfile string) (*models.FinalResult, error) {
	result, err := repository.GetOrCreateResult(eval.ID)
	if err != nil {
		return nil, err
	}

	// Reliability first: social desirability plus pair concordance.
	dsRows, err := repository.PsychometricByTestKind(eval.ID, models.KindDesirability)
	if err != nil {
		return nil, err
	}
	result.SocialDesirability = LikertMean(likertItems(dsRows))

	allRows, err := repository.AllPsychometric(eval.ID)
	if err != nil {
		return nil, err
	}
	result.ConsistencyIndex = Consistency(consistencyPairs(allRows))
	result.Reliable = Reliable(result.SocialDesirability, result.ConsistencyIndex)

	// Big Five
	bfRows, err := repository.PsychometricByTestKind(eval.ID, models.KindBigFive)
	if err != nil {
		return nil, err
	}
	bf := BigFive(likertItems(bfRows))
	result.Responsibility = bf.Responsibility
	result.Agreeableness = bf.Agreeableness
	result.Neuroticism = bf.Neuroticism
	result.Openness = bf.Openness
	result.Extraversion = bf.Extraversion

	// Organizational commitment
	coRows, err := repository.PsychometricByTestKind(eval.ID, models.KindCommitment)
	if err != nil {
		return nil, err
	}
	co := Commitment(likertItems(coRows))
	result.CommitmentAffective = co.Affective
	result.CommitmentContinuance = co.Continuance
	result.CommitmentNormative = co.Normative
	result.CommitmentTotal = co.Total

	// Obedience
	obRows, err := repository.PsychometricByTestKind(eval.ID, models.KindObedience)
	if err != nil {
		return nil, err
	}
	result.Obedience = LikertMean(likertItems(obRows))

	// Memory
	memRows, err := repository.MemoryResponses(eval.ID)
	if err != nil {
		return nil, err
	}
	memItems := make([]MemoryItem, len(memRows))
	for i, r := range memRows {
		memItems[i] = MemoryItem{Correct: r.Correct, Length: r.SequenceLength}
	}
	memScore := Memory(memItems)
	result.MemoryPercent = memScore.Percent
	result.MaxMemorySpan = memScore.MaxSpan

	// Matrices
	matRows, err := repository.MatrixResponses(eval.ID)
	if err != nil {
		return nil, err
	}
	matCorrect := make([]bool, len(matRows))
	for i, r := range matRows {
		matCorrect[i] = r.Correct
	}
	result.MatricesPercent = Matrices(matCorrect)

	// Situational judgment
	sitRows, err := repository.SituationalResponses(eval.ID)
	if err != nil {
		return nil, err
	}
	sitItems := make([]SituationalItem, len(sitRows))
	for i, r := range sitRows {
		sitItems[i] = SituationalItem{Dimension: r.Question.Dimension, Value: r.Value}
	}
	result.SituationalPercent = Situational(sitItems).Percent

	// Attention to detail
	attRows, err := repository.AttentionResponses(eval.ID)
	if err != nil {
		return nil, err
	}
	attItems := make([]AttentionItem, len(attRows))
	for i, r := range attRows {
		attItems[i] = AttentionItem{Subtype: r.Subtype, Correct: r.Correct, Partial: r.PartialScore}
	}
	att := Attention(attItems)
	result.AttentionPercent = att.Composite
	result.AttentionComparison = att.Comparison
	result.AttentionVerification = att.Verification
	result.AttentionSequences = att.Sequences

	// Projective scores, when the review has assigned them.
	projRows, err := repository.ProjectiveResponses(eval.ID)
	if err != nil {
		return nil, err
	}
	result.TreeScore = projectiveMean(projRows, models.KindTree)
	result.PersonRainScore = projectiveMean(projRows, models.KindPersonRain)
	result.SentencesScore = projectiveMean(projRows, models.KindSentences)

	// Composite indices
	result.ResponsibilityIndex = ResponsibilityIndex(
		result.Responsibility, result.SituationalPercent,
		result.MemoryPercent, result.AttentionPercent)
	result.LoyaltyIndex = LoyaltyIndex(
		result.CommitmentTotal, result.Responsibility, result.Obedience)
	result.ObedienceIndex = ObedienceIndex(
		result.Obedience, result.SituationalPercent)

	// Automatic verdict. Thresholds are read live from the referenced profile.
	pending, err := repository.HasPendingProjective(eval.ID)
	if err != nil {
		return nil, err
	}
	profile, err := resolveProfile(eval, defaultProfile)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		result.AutoVerdict = models.VerdictReview
	} else {
		result.AutoVerdict = Verdict(result, profile, pending)
	}

	if err := repository.SaveResult(result); err != nil {
		return nil, err
	}
	return result, nil
}

func resolveProfile(eval *models.Evaluation, defaultName string) (*models.TargetProfile, error) {
	if eval.ProfileID != nil {
		return repository.ProfileByID(*eval.ProfileID)
	}
	profile, err := repository.ProfileByName(defaultName)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return profile, err
}

func likertItems(rows []models.PsychometricResponse) []LikertItem {
	items := make([]LikertItem, len(rows))
	for i, r := range rows {
		items[i] = LikertItem{
			Dimension: r.Question.Dimension,
			Value:     r.Value,
			Reversed:  r.Question.Reversed,
		}
	}
	return items
}

// consistencyPairs matches answered questions with their linked partners,
// inversion already applied, each pair counted once.
func consistencyPairs(rows []models.PsychometricResponse) []ConsistencyPair {
	valueByQuestion := make(map[uint]float64, len(rows))
	for _, r := range rows {
		valueByQuestion[r.QuestionID] = AdjustedValue(r.Value, r.Question.Reversed)
	}

	var pairs []ConsistencyPair
	seen := make(map[uint]bool)
	for _, r := range rows {
		pairID := r.Question.ConsistencyPairID
		if pairID == nil || seen[r.QuestionID] {
			continue
		}
		a, okA := valueByQuestion[r.QuestionID]
		b, okB := valueByQuestion[*pairID]
		if okA && okB {
			pairs = append(pairs, ConsistencyPair{A: a, B: b})
			seen[r.QuestionID] = true
			seen[*pairID] = true
		}
	}
	return pairs
}

// projectiveMean averages the assigned review scores of one instrument, nil
// while none have been scored.
func projectiveMean(rows []models.ProjectiveResponse, kind models.TestKind) *float64 {
	var values []float64
	for _, r := range rows {
		if r.Test.Kind == kind && r.ManualScore != nil {
			values = append(values, float64(*r.ManualScore))
		}
	}
	if len(values) == 0 {
		return nil
	}
	m := mean(values)
	return &m
}
