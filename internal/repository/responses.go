package repository

import (
	"gorm.io/gorm/clause"

	"github.com/bambinounos/psicoeval/internal/database"
	"github.com/bambinounos/psicoeval/internal/models"
)

// Answer submissions upsert on (evaluation, question): a double-click re-POST
// replaces the previous row, last write wins.

var evalQuestionKey = []clause.Column{{Name: "evaluation_id"}, {Name: "question_id"}}

// UpsertPsychometric saves a Likert / multiple-choice answer.
func UpsertPsychometric(r *models.PsychometricResponse) error {
	return database.DB.Clauses(clause.OnConflict{
		Columns:   evalQuestionKey,
		DoUpdates: clause.AssignmentColumns([]string{"value", "option_id", "response_time_sec"}),
	}).Create(r).Error
}

// UpsertMemory saves a working-memory trial.
func UpsertMemory(r *models.MemoryResponse) error {
	return database.DB.Clauses(clause.OnConflict{
		Columns:   evalQuestionKey,
		DoUpdates: clause.AssignmentColumns([]string{"presented", "answered", "correct", "sequence_length", "response_time_sec"}),
	}).Create(r).Error
}

// UpsertMatrix saves a progressive-matrices answer.
func UpsertMatrix(r *models.MatrixResponse) error {
	return database.DB.Clauses(clause.OnConflict{
		Columns:   evalQuestionKey,
		DoUpdates: clause.AssignmentColumns([]string{"option_id", "correct", "response_time_sec"}),
	}).Create(r).Error
}

// UpsertSituational saves a scenario answer.
func UpsertSituational(r *models.SituationalResponse) error {
	return database.DB.Clauses(clause.OnConflict{
		Columns:   evalQuestionKey,
		DoUpdates: clause.AssignmentColumns([]string{"option_id", "value", "justification", "response_time_sec"}),
	}).Create(r).Error
}

// UpsertAttention saves an attention-to-detail answer.
func UpsertAttention(r *models.AttentionResponse) error {
	return database.DB.Clauses(clause.OnConflict{
		Columns:   evalQuestionKey,
		DoUpdates: clause.AssignmentColumns([]string{"subtype", "payload", "correct", "partial_score", "response_time_sec"}),
	}).Create(r).Error
}

// CreateProjective stores a projective artifact. Projective rows are keyed per
// (evaluation, test, question) and a session submits each at most once, so a
// plain create suffices.
func CreateProjective(r *models.ProjectiveResponse) error {
	return database.DB.Create(r).Error
}

// SaveProjective writes back review fields on a projective response.
func SaveProjective(r *models.ProjectiveResponse) error {
	return database.DB.Save(r).Error
}

// PsychometricByTestKind returns an evaluation's Likert answers restricted to
// one instrument, question preloaded for dimension and inversion flags.
func PsychometricByTestKind(evalID uint, kind models.TestKind) ([]models.PsychometricResponse, error) {
	var rows []models.PsychometricResponse
	err := database.DB.
		Preload("Question").
		Joins("JOIN questions ON questions.id = psychometric_responses.question_id").
		Joins("JOIN tests ON tests.id = questions.test_id").
		Where("psychometric_responses.evaluation_id = ? AND tests.kind = ?", evalID, kind).
		Find(&rows).Error
	return rows, err
}

// AllPsychometric returns every Likert answer of an evaluation, for the
// consistency-pair computation.
func AllPsychometric(evalID uint) ([]models.PsychometricResponse, error) {
	var rows []models.PsychometricResponse
	err := database.DB.
		Preload("Question").
		Where("evaluation_id = ?", evalID).
		Find(&rows).Error
	return rows, err
}

// MemoryResponses returns an evaluation's memory trials.
func MemoryResponses(evalID uint) ([]models.MemoryResponse, error) {
	var rows []models.MemoryResponse
	err := database.DB.
		Where("evaluation_id = ?", evalID).
		Order("question_id").
		Find(&rows).Error
	return rows, err
}

// MatrixResponses returns matrix answers in bank order; the scoring weight
// grows with the item index.
func MatrixResponses(evalID uint) ([]models.MatrixResponse, error) {
	var rows []models.MatrixResponse
	err := database.DB.
		Where("evaluation_id = ?", evalID).
		Order("question_id").
		Find(&rows).Error
	return rows, err
}

// SituationalResponses returns scenario answers with questions preloaded.
func SituationalResponses(evalID uint) ([]models.SituationalResponse, error) {
	var rows []models.SituationalResponse
	err := database.DB.
		Preload("Question").
		Where("evaluation_id = ?", evalID).
		Find(&rows).Error
	return rows, err
}

// AttentionResponses returns attention answers.
func AttentionResponses(evalID uint) ([]models.AttentionResponse, error) {
	var rows []models.AttentionResponse
	err := database.DB.
		Where("evaluation_id = ?", evalID).
		Find(&rows).Error
	return rows, err
}

// ProjectiveResponses returns an evaluation's projective artifacts with their
// owning tests.
func ProjectiveResponses(evalID uint) ([]models.ProjectiveResponse, error) {
	var rows []models.ProjectiveResponse
	err := database.DB.
		Preload("Test").
		Preload("Question").
		Where("evaluation_id = ?", evalID).
		Find(&rows).Error
	return rows, err
}

// HasPendingProjective reports whether any projective response is still
// unreviewed.
func HasPendingProjective(evalID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.ProjectiveResponse{}).
		Where("evaluation_id = ? AND reviewed = ?", evalID, false).
		Count(&count).Error
	return count > 0, err
}
