package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/database"
	"github.com/bambinounos/psicoeval/internal/models"
	"github.com/bambinounos/psicoeval/internal/repository"
)

var dbSeq atomic.Int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
	return db
}

// stubGrader returns canned grades and records what it was asked.
type stubGrader struct {
	drawings  int
	sentences []SentenceAnswer
	colors    int
}

func (s *stubGrader) GradeDrawing(_ context.Context, _, _ string) GradeResult {
	s.drawings++
	return GradeResult{Score: 8, Interpretation: "dibujo", Confidence: ConfidenceHigh}
}

func (s *stubGrader) GradeSentences(_ context.Context, answers []SentenceAnswer) GradeResult {
	s.sentences = answers
	return GradeResult{Score: 6, Interpretation: "frases", Confidence: ConfidenceMedium}
}

func (s *stubGrader) GradeColors(_ context.Context, _ string) GradeResult {
	s.colors++
	return GradeResult{Score: 5, Interpretation: "colores", Confidence: ConfidenceLow}
}

func seedProjectives(t *testing.T, db *gorm.DB) (models.Evaluation, []models.ProjectiveResponse) {
	t.Helper()

	tree := models.Test{Kind: models.KindTree, Name: "Árbol", Position: 1, Active: true}
	sentences := models.Test{Kind: models.KindSentences, Name: "Frases", Position: 2, Active: true}
	require.NoError(t, db.Create(&tree).Error)
	require.NoError(t, db.Create(&sentences).Error)

	q1 := models.Question{TestID: sentences.ID, Text: "Mi trabajo ideal es...", Dimension: models.DimSentWork}
	q2 := models.Question{TestID: sentences.ID, Text: "Cuando mi jefe me corrige...", Dimension: models.DimSentAuthority}
	require.NoError(t, db.Create(&q1).Error)
	require.NoError(t, db.Create(&q2).Error)

	eval := models.Evaluation{FullName: "Ana", NationalID: "1712345678", Email: "ana@example.com"}
	require.NoError(t, db.Create(&eval).Error)

	rows := []models.ProjectiveResponse{
		{EvaluationID: eval.ID, TestID: tree.ID, Kind: models.ProjectiveDrawing, CanvasImage: "aW1n"},
		{EvaluationID: eval.ID, TestID: sentences.ID, QuestionID: &q1.ID, Kind: models.ProjectiveText, Text: "uno tranquilo"},
		{EvaluationID: eval.ID, TestID: sentences.ID, QuestionID: &q2.ID, Kind: models.ProjectiveText, Text: "lo agradezco"},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}
	return eval, rows
}

func TestGradeProjectivesGroupsSentences(t *testing.T) {
	db := setupDB(t)
	eval, _ := seedProjectives(t, db)

	grader := &stubGrader{}
	suggestions, err := GradeProjectives(context.Background(), grader, zap.NewNop(), eval.ID)
	require.NoError(t, err)

	// One drawing suggestion plus one combined sentences suggestion.
	require.Len(t, suggestions, 2)
	require.Equal(t, 1, grader.drawings)
	require.Len(t, grader.sentences, 2)

	var sentSuggestion *Suggestion
	for i := range suggestions {
		if suggestions[i].TestKind == models.KindSentences {
			sentSuggestion = &suggestions[i]
		}
	}
	require.NotNil(t, sentSuggestion)
	require.Len(t, sentSuggestion.ResponseIDs, 2)
	require.Equal(t, 6, sentSuggestion.Grade.Score)
}

func TestApplyGradesMarksReviewed(t *testing.T) {
	db := setupDB(t)
	eval, _ := seedProjectives(t, db)

	grader := &stubGrader{}
	suggestions, err := GradeProjectives(context.Background(), grader, zap.NewNop(), eval.ID)
	require.NoError(t, err)

	applied, err := ApplyGrades(eval.ID, suggestions)
	require.NoError(t, err)
	require.Equal(t, 3, applied)

	pending, err := repository.HasPendingProjective(eval.ID)
	require.NoError(t, err)
	require.False(t, pending)

	rows, err := repository.ProjectiveResponses(eval.ID)
	require.NoError(t, err)
	for _, r := range rows {
		require.True(t, r.Reviewed)
		require.NotNil(t, r.ManualScore)
		require.NotNil(t, r.ReviewedAt)
	}
}

func TestApplyGradesIgnoresForeignResponseIDs(t *testing.T) {
	db := setupDB(t)
	eval, _ := seedProjectives(t, db)

	applied, err := ApplyGrades(eval.ID, []Suggestion{{
		TestKind:    models.KindTree,
		ResponseIDs: []uint{99999},
		Grade:       GradeResult{Score: 9},
	}})
	require.NoError(t, err)
	require.Zero(t, applied)

	pending, err := repository.HasPendingProjective(eval.ID)
	require.NoError(t, err)
	require.True(t, pending)
}
