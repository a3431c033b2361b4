package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bambinounos/psicoeval/internal/config"
	"github.com/bambinounos/psicoeval/internal/models"
)

func TestCreateEvaluationUsesConfiguredTTL(t *testing.T) {
	setupDB(t)
	config.Conf = &config.Config{Evaluation: config.EvaluationConfig{TokenTTLHours: 12}}
	t.Cleanup(func() { config.Conf = nil })

	eval := &models.Evaluation{FullName: "X", NationalID: "1712345678", Email: "x@example.com"}
	require.NoError(t, CreateEvaluation(eval))
	require.WithinDuration(t, time.Now().Add(12*time.Hour), eval.ExpiresAt, time.Minute)
}

func TestCreateEvaluationKeepsExplicitExpiry(t *testing.T) {
	setupDB(t)
	config.Conf = &config.Config{Evaluation: config.EvaluationConfig{TokenTTLHours: 12}}
	t.Cleanup(func() { config.Conf = nil })

	want := time.Now().Add(3 * time.Hour)
	eval := &models.Evaluation{FullName: "X", NationalID: "1712345678", Email: "x@example.com", ExpiresAt: want}
	require.NoError(t, CreateEvaluation(eval))
	require.WithinDuration(t, want, eval.ExpiresAt, time.Second)
}

func TestCreateEvaluationDefaultTTLWithoutConfig(t *testing.T) {
	setupDB(t)
	config.Conf = nil

	eval := &models.Evaluation{FullName: "X", NationalID: "1712345678", Email: "x@example.com"}
	require.NoError(t, CreateEvaluation(eval))
	require.WithinDuration(t, time.Now().Add(models.DefaultTokenTTL), eval.ExpiresAt, time.Minute)
}
