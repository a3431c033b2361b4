package models

import (
	"time"

	"gorm.io/datatypes"
)

// PsychometricResponse stores Likert and multiple-choice answers. One row per
// (evaluation, question); re-submissions upsert in place.
type PsychometricResponse struct {
	ID              uint  `gorm:"primaryKey" json:"id"`
	EvaluationID    uint  `gorm:"uniqueIndex:idx_psico_eval_question" json:"evaluation_id"`
	QuestionID      uint  `gorm:"uniqueIndex:idx_psico_eval_question" json:"question_id"`
	Value           int   `json:"value"`
	OptionID        *uint `json:"option_id,omitempty"`
	ResponseTimeSec *int  `json:"response_time_sec,omitempty"`

	Question  Question  `gorm:"foreignKey:QuestionID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectiveKind distinguishes canvas drawings from free text.
type ProjectiveKind string

const (
	ProjectiveDrawing ProjectiveKind = "DIBUJO"
	ProjectiveText    ProjectiveKind = "TEXTO"
)

// ProjectiveResponse stores drawings, incomplete sentences and color rankings.
// Keyed per (evaluation, test, question) since a projective instrument may
// collect several artifacts.
type ProjectiveResponse struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	EvaluationID uint           `gorm:"index" json:"evaluation_id"`
	TestID       uint           `gorm:"index" json:"test_id"`
	QuestionID   *uint          `json:"question_id,omitempty"`
	Kind         ProjectiveKind `gorm:"size:10" json:"kind"`

	// Drawings
	CanvasImage string         `json:"canvas_image,omitempty"` // base64
	StrokeData  datatypes.JSON `json:"stroke_data,omitempty"`

	// Free text / color ranking
	Text string `json:"text,omitempty"`

	// Review state. ManualScore is 1-10, set by the evaluator (possibly from
	// an applied AI suggestion).
	ManualScore   *int       `json:"manual_score,omitempty"`
	EvaluatorNote string     `json:"evaluator_note,omitempty"`
	Reviewed      bool       `gorm:"default:false;index" json:"reviewed"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`

	TotalTimeSec *int `json:"total_time_sec,omitempty"`

	Test      Test      `gorm:"foreignKey:TestID" json:"-"`
	Question  *Question `gorm:"foreignKey:QuestionID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// MemoryResponse stores one working-memory trial. Correctness is derived at
// write time by exact sequence comparison.
type MemoryResponse struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	EvaluationID uint `gorm:"uniqueIndex:idx_memoria_eval_question" json:"evaluation_id"`
	QuestionID   uint `gorm:"uniqueIndex:idx_memoria_eval_question" json:"question_id"`

	Presented      datatypes.JSONSlice[int] `json:"presented"`
	Answered       datatypes.JSONSlice[int] `json:"answered"`
	Correct        bool                     `gorm:"default:false" json:"correct"`
	SequenceLength int                      `json:"sequence_length"` // difficulty

	ResponseTimeSec *int      `json:"response_time_sec,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// MatrixResponse stores one progressive-matrices answer. Correct mirrors the
// selected option's value (1 = correct), derived at write time.
type MatrixResponse struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	EvaluationID uint  `gorm:"uniqueIndex:idx_matriz_eval_question" json:"evaluation_id"`
	QuestionID   uint  `gorm:"uniqueIndex:idx_matriz_eval_question" json:"question_id"`
	OptionID     *uint `json:"option_id,omitempty"`
	Correct      bool  `gorm:"default:false" json:"correct"`

	ResponseTimeSec *int      `json:"response_time_sec,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SituationalResponse stores one scenario answer on a 0-5 value scale.
type SituationalResponse struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	EvaluationID  uint   `gorm:"uniqueIndex:idx_situ_eval_question" json:"evaluation_id"`
	QuestionID    uint   `gorm:"uniqueIndex:idx_situ_eval_question" json:"question_id"`
	OptionID      *uint  `json:"option_id,omitempty"`
	Value         int    `json:"value"`
	Justification string `json:"justification,omitempty"`

	Question        Question  `gorm:"foreignKey:QuestionID" json:"-"`
	ResponseTimeSec *int      `json:"response_time_sec,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// AttentionSubtype names the three attention-to-detail sub-tasks.
type AttentionSubtype string

const (
	AttentionComparison   AttentionSubtype = "COMPARACION"
	AttentionVerification AttentionSubtype = "VERIFICACION"
	AttentionSequence     AttentionSubtype = "SECUENCIA"
)

// AttentionResponse stores one attention-to-detail answer. Payload is the
// structured candidate answer (flagged differences, found inconsistencies, or
// the value identified as the sequence error); Correct and PartialScore are
// derived at write time.
type AttentionResponse struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	EvaluationID uint             `gorm:"uniqueIndex:idx_aten_eval_question" json:"evaluation_id"`
	QuestionID   uint             `gorm:"uniqueIndex:idx_aten_eval_question" json:"question_id"`
	Subtype      AttentionSubtype `gorm:"size:15" json:"subtype"`

	Payload      datatypes.JSON `json:"payload,omitempty"`
	Correct      bool           `gorm:"default:false" json:"correct"`
	PartialScore float64        `gorm:"default:0" json:"partial_score"` // 0-1

	ResponseTimeSec *int      `json:"response_time_sec,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
