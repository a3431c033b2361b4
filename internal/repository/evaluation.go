package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/apperr"
	"github.com/bambinounos/psicoeval/internal/config"
	"github.com/bambinounos/psicoeval/internal/database"
	"github.com/bambinounos/psicoeval/internal/models"
)

// CreateEvaluation persists a new candidate session. When no explicit
// expiration was set, the configured token TTL applies; the token and the
// built-in default expiration are filled by the model hook.
func CreateEvaluation(e *models.Evaluation) error {
	if e.ExpiresAt.IsZero() && config.Conf != nil && config.Conf.Evaluation.TokenTTLHours > 0 {
		e.ExpiresAt = time.Now().Add(time.Duration(config.Conf.Evaluation.TokenTTLHours) * time.Hour)
	}
	return database.DB.Create(e).Error
}

// EvaluationByToken looks a session up by its access token.
func EvaluationByToken(token string) (*models.Evaluation, error) {
	var e models.Evaluation
	err := database.DB.
		Preload("CurrentTest").
		Where("token = ?", token).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &e, err
}

// EvaluationByID fetches a session for the evaluator panel.
func EvaluationByID(id uint) (*models.Evaluation, error) {
	var e models.Evaluation
	err := database.DB.
		Preload("Profile").
		Preload("CurrentTest").
		First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &e, err
}

// SaveEvaluation writes back a modified session.
func SaveEvaluation(e *models.Evaluation) error {
	return database.DB.Save(e).Error
}

// MarkExpired transitions a session to EXPIRADA if it is still pending. The
// WHERE clause makes the check-and-set idempotent under concurrent access.
func MarkExpired(id uint) error {
	return database.DB.Model(&models.Evaluation{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("status", models.StatusExpired).Error
}

// SweepExpired marks every pending session past its TTL as expired and
// returns the number of rows touched. Backs the periodic sweeper; the lazy
// on-access check remains the primary mechanism.
func SweepExpired(now time.Time) (int64, error) {
	res := database.DB.Model(&models.Evaluation{}).
		Where("status = ? AND expires_at < ?", models.StatusPending, now).
		Update("status", models.StatusExpired)
	return res.RowsAffected, res.Error
}

// FinishedEvaluations lists completed and reviewed sessions, most recent
// first, for the comparative panel.
func FinishedEvaluations() ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := database.DB.
		Where("status IN ?", []models.EvaluationStatus{models.StatusCompleted, models.StatusReviewed}).
		Order("created_at DESC").
		Find(&evals).Error
	return evals, err
}
