package models

import "time"

// Verdict is the assessment outcome.
type Verdict string

const (
	VerdictPass   Verdict = "APTO"
	VerdictFail   Verdict = "NO_APTO"
	VerdictReview Verdict = "REVISION"
)

// FinalResult is the consolidated outcome, one-to-one with Evaluation.
// Created lazily the first time scoring runs and updated in place on every
// recomputation.
type FinalResult struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	EvaluationID uint `gorm:"uniqueIndex" json:"evaluation_id"`

	// Big Five (1-5)
	Responsibility float64 `json:"responsibility"`
	Agreeableness  float64 `json:"agreeableness"`
	Neuroticism    float64 `json:"neuroticism"`
	Openness       float64 `json:"openness"`
	Extraversion   float64 `json:"extraversion"`

	// Organizational commitment (1-5)
	CommitmentAffective   float64 `json:"commitment_affective"`
	CommitmentContinuance float64 `json:"commitment_continuance"`
	CommitmentNormative   float64 `json:"commitment_normative"`
	CommitmentTotal       float64 `json:"commitment_total"`

	Obedience float64 `json:"obedience"` // 1-5

	MemoryPercent float64 `json:"memory_percent"`
	MaxMemorySpan int     `json:"max_memory_span"` // longest correctly reproduced sequence

	MatricesPercent    float64 `json:"matrices_percent"` // difficulty weighted
	SituationalPercent float64 `json:"situational_percent"`

	// Attention to detail
	AttentionPercent      float64 `json:"attention_percent"` // 40/35/25 composite
	AttentionComparison   float64 `json:"attention_comparison"`
	AttentionVerification float64 `json:"attention_verification"`
	AttentionSequences    float64 `json:"attention_sequences"`

	// Projective scores (1-10, set during human/AI review)
	TreeScore       *float64 `json:"tree_score,omitempty"`
	PersonRainScore *float64 `json:"person_rain_score,omitempty"`
	SentencesScore  *float64 `json:"sentences_score,omitempty"`

	// Reliability. ConsistencyIndex is nil when no linked pair was answered:
	// undetermined, not zero, and must not penalize reliability.
	SocialDesirability float64  `json:"social_desirability"` // mean, 1-5
	ConsistencyIndex   *float64 `json:"consistency_index,omitempty"`
	Reliable           bool     `gorm:"default:true" json:"reliable"`

	// Derived composite indices (approx. 0-5 scale)
	ResponsibilityIndex float64 `json:"responsibility_index"`
	LoyaltyIndex        float64 `json:"loyalty_index"`
	ObedienceIndex      float64 `json:"obedience_index"`

	AutoVerdict   Verdict  `gorm:"size:10;default:REVISION" json:"auto_verdict"`
	ManualVerdict *Verdict `gorm:"size:10" json:"manual_verdict,omitempty"`

	Observations string    `json:"observations,omitempty"`
	ComputedAt   time.Time `gorm:"autoUpdateTime" json:"computed_at"`
}

// FinalVerdict resolves the verdict surfaced to the organization: the manual
// verdict when present, otherwise the automatic one.
func (r *FinalResult) FinalVerdict() Verdict {
	if r.ManualVerdict != nil {
		return *r.ManualVerdict
	}
	return r.AutoVerdict
}
