package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/apperr"
	"github.com/bambinounos/psicoeval/internal/database"
	"github.com/bambinounos/psicoeval/internal/models"
)

// EvaluatorByEmail fetches a panel account.
func EvaluatorByEmail(email string) (*models.Evaluator, error) {
	var u models.Evaluator
	err := database.DB.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &u, err
}

// EvaluatorByID fetches a panel account by primary key.
func EvaluatorByID(id uint) (*models.Evaluator, error) {
	var u models.Evaluator
	err := database.DB.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &u, err
}

// CreateEvaluator registers a panel account with a hashed password.
func CreateEvaluator(email, name, password string) (*models.Evaluator, error) {
	u := &models.Evaluator{Email: email, Name: name}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	if err := database.DB.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}
