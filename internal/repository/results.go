package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/apperr"
	"github.com/bambinounos/psicoeval/internal/database"
	"github.com/bambinounos/psicoeval/internal/models"
)

// GetOrCreateResult returns the evaluation's FinalResult, creating the single
// row on first use. Recomputations update it in place, never duplicate it.
func GetOrCreateResult(evalID uint) (*models.FinalResult, error) {
	var r models.FinalResult
	err := database.DB.
		Where(models.FinalResult{EvaluationID: evalID}).
		FirstOrCreate(&r).Error
	return &r, err
}

// ResultByEvaluationID fetches the result if scoring has run.
func ResultByEvaluationID(evalID uint) (*models.FinalResult, error) {
	var r models.FinalResult
	err := database.DB.
		Where("evaluation_id = ?", evalID).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &r, err
}

// SaveResult writes back a recomputed result.
func SaveResult(r *models.FinalResult) error {
	return database.DB.Save(r).Error
}

// ResultsForEvaluations loads results for the comparative panel, keyed by
// evaluation ID.
func ResultsForEvaluations(evalIDs []uint) (map[uint]models.FinalResult, error) {
	if len(evalIDs) == 0 {
		return map[uint]models.FinalResult{}, nil
	}
	var rows []models.FinalResult
	if err := database.DB.Where("evaluation_id IN ?", evalIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.FinalResult, len(rows))
	for _, r := range rows {
		out[r.EvaluationID] = r
	}
	return out, nil
}
