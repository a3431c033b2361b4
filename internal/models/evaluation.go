package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/utils"
)

// EvaluationStatus is the session lifecycle state. Values match the codes the
// evaluator tooling already stores.
type EvaluationStatus string

const (
	StatusPending    EvaluationStatus = "PENDIENTE"
	StatusInProgress EvaluationStatus = "EN_CURSO"
	StatusCompleted  EvaluationStatus = "COMPLETADA"
	StatusReviewed   EvaluationStatus = "REVISADA"
	StatusExpired    EvaluationStatus = "EXPIRADA"
	StatusCancelled  EvaluationStatus = "CANCELADA"
)

// DefaultTokenTTL applies when an evaluation is created without an explicit
// expiration.
const DefaultTokenTTL = 48 * time.Hour

// Evaluation is one candidate's assessment session.
type Evaluation struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Token string `gorm:"size:64;uniqueIndex" json:"-"`

	// Candidate identity
	FullName   string `gorm:"size:200" json:"full_name"`
	NationalID string `gorm:"size:13" json:"national_id"`
	Email      string `gorm:"size:254" json:"email"`
	Phone      string `gorm:"size:20" json:"phone,omitempty"`
	AppliedFor string `gorm:"size:200" json:"applied_for,omitempty"`

	// Profile the candidate is graded against. The reference is set at
	// creation; threshold fields are read live at scoring time.
	ProfileID *uint          `json:"profile_id,omitempty"`
	Profile   *TargetProfile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`

	Status     EvaluationStatus `gorm:"size:15;default:PENDIENTE;index" json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	ExpiresAt  time.Time        `json:"expires_at"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`

	// Resumability pointer: the instrument the candidate is currently on.
	CurrentTestID *uint `json:"current_test_id,omitempty"`
	CurrentTest   *Test `gorm:"foreignKey:CurrentTestID" json:"current_test,omitempty"`

	// SelectedQuestionIDs is the ordered question subset chosen for this
	// session. Written exactly once, at identity verification.
	SelectedQuestionIDs datatypes.JSONSlice[int64] `json:"selected_question_ids,omitempty"`

	AccessIP       string `gorm:"size:45" json:"access_ip,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
	EvaluatorNotes string `json:"evaluator_notes,omitempty"`
}

// IsExpired reports whether the access token's TTL has elapsed.
func (e *Evaluation) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// BeforeCreate fills in the access token and default expiration. The token is
// immutable after this point.
func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.Token == "" {
		token, err := utils.GenerateHexToken(32)
		if err != nil {
			return err
		}
		e.Token = token
	}
	if e.ExpiresAt.IsZero() {
		e.ExpiresAt = time.Now().Add(DefaultTokenTTL)
	}
	return nil
}
