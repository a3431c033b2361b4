package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/apperr"
	"github.com/bambinounos/psicoeval/internal/database"
	"github.com/bambinounos/psicoeval/internal/models"
)

// ActiveTests returns the active instrument catalog in presentation order,
// with questions and options preloaded.
func ActiveTests() ([]models.Test, error) {
	var tests []models.Test
	err := database.DB.
		Where("active = ?", true).
		Order("position").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		Find(&tests).Error
	return tests, err
}

// ActiveTestByKind fetches one active instrument.
func ActiveTestByKind(kind models.TestKind) (*models.Test, error) {
	var test models.Test
	err := database.DB.
		Where("kind = ? AND active = ?", kind, true).
		First(&test).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &test, err
}

// FirstActiveTest returns the instrument the session starts on.
func FirstActiveTest() (*models.Test, error) {
	var test models.Test
	err := database.DB.
		Where("active = ?", true).
		Order("position").
		First(&test).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &test, err
}

// NextActiveTest returns the first active instrument ordered after the given
// position, or nil when none remain and the session should finalize.
func NextActiveTest(position int) (*models.Test, error) {
	var test models.Test
	err := database.DB.
		Where("active = ? AND position > ?", true, position).
		Order("position").
		First(&test).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

// QuestionByID fetches a single question with its options.
func QuestionByID(id uint) (*models.Question, error) {
	var q models.Question
	err := database.DB.Preload("Options").First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &q, err
}

// QuestionsByIDs fetches the given questions preserving the requested order.
func QuestionsByIDs(ids []int64) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []models.Question
	err := database.DB.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		Where("id IN ?", ids).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Question, len(questions))
	for _, q := range questions {
		byID[int64(q.ID)] = q
	}
	ordered := make([]models.Question, 0, len(questions))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// ProfileByName fetches an active target profile by name. Used to resolve the
// configured default profile at verdict time.
func ProfileByName(name string) (*models.TargetProfile, error) {
	var profile models.TargetProfile
	err := database.DB.
		Where("name = ? AND active = ?", name, true).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &profile, err
}

// ActiveProfiles lists the selectable target profiles for the panel.
func ActiveProfiles() ([]models.TargetProfile, error) {
	var profiles []models.TargetProfile
	err := database.DB.
		Where("active = ?", true).
		Order("name").
		Find(&profiles).Error
	return profiles, err
}

// ProfileByID fetches a profile regardless of active flag; evaluations keep
// grading against the profile they reference even if it is later deactivated.
func ProfileByID(id uint) (*models.TargetProfile, error) {
	var profile models.TargetProfile
	err := database.DB.First(&profile, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &profile, err
}
