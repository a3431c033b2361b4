package models

// VerdictMethod selects how threshold failures map to a verdict.
type VerdictMethod string

const (
	// MethodFailureCount: 0 failures = APTO, 1 = REVISION, 2+ = NO_APTO.
	MethodFailureCount VerdictMethod = "CONTEO_FALLOS"
	// MethodStrict: any failure = NO_APTO.
	MethodStrict VerdictMethod = "ESTRICTO"
)

// TargetProfile is a named set of pass/fail thresholds. Many evaluations may
// reference one profile; editing it re-grades them on the next recomputation.
type TargetProfile struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;default:Perfil Estándar" json:"name"`

	// Big Five thresholds (1-5 scale)
	MinResponsibility float64 `gorm:"default:4.0" json:"min_responsibility"`
	MinAgreeableness  float64 `gorm:"default:3.0" json:"min_agreeableness"`
	MaxNeuroticism    float64 `gorm:"default:3.0" json:"max_neuroticism"`
	MinOpenness       float64 `gorm:"default:2.5" json:"min_openness"`
	MinExtraversion   float64 `gorm:"default:2.0" json:"min_extraversion"`

	// Instrument-specific thresholds
	MinCommitment  float64 `gorm:"default:3.5" json:"min_commitment"`  // 1-5
	MinObedience   float64 `gorm:"default:3.5" json:"min_obedience"`   // 1-5
	MinMemory      float64 `gorm:"default:60.0" json:"min_memory"`     // percent
	MinMatrices    float64 `gorm:"default:50.0" json:"min_matrices"`   // percent
	MinSituational float64 `gorm:"default:60.0" json:"min_situational"` // percent
	MinAttention   float64 `gorm:"default:60.0" json:"min_attention"`  // percent

	VerdictMethod VerdictMethod `gorm:"size:15;default:CONTEO_FALLOS" json:"verdict_method"`
	Active        bool          `gorm:"default:true" json:"active"`
}
