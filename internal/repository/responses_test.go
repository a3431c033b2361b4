package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/database"
	"github.com/bambinounos/psicoeval/internal/models"
)

var dbSeq atomic.Int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
	return db
}

func seedOneQuestion(t *testing.T, db *gorm.DB, kind models.TestKind) (models.Evaluation, models.Question) {
	t.Helper()
	test := models.Test{Kind: kind, Name: string(kind), Position: 1, Active: true}
	require.NoError(t, db.Create(&test).Error)
	q := models.Question{TestID: test.ID, Text: "item", Dimension: models.DimGeneral, Position: 1}
	require.NoError(t, db.Create(&q).Error)
	eval := models.Evaluation{FullName: "X", NationalID: "1712345678", Email: "x@example.com"}
	require.NoError(t, db.Create(&eval).Error)
	return eval, q
}

func TestUpsertPsychometricLastWriteWins(t *testing.T) {
	db := setupDB(t)
	eval, q := seedOneQuestion(t, db, models.KindBigFive)

	require.NoError(t, UpsertPsychometric(&models.PsychometricResponse{
		EvaluationID: eval.ID, QuestionID: q.ID, Value: 2,
	}))
	// Re-submission replaces the previous row.
	require.NoError(t, UpsertPsychometric(&models.PsychometricResponse{
		EvaluationID: eval.ID, QuestionID: q.ID, Value: 5,
	}))

	var rows []models.PsychometricResponse
	require.NoError(t, db.Where("evaluation_id = ?", eval.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, 5, rows[0].Value)
}

func TestUpsertMemoryLastWriteWins(t *testing.T) {
	db := setupDB(t)
	eval, q := seedOneQuestion(t, db, models.KindMemory)

	require.NoError(t, UpsertMemory(&models.MemoryResponse{
		EvaluationID: eval.ID, QuestionID: q.ID,
		Presented: datatypes.NewJSONSlice([]int{1, 2, 3}),
		Answered:  datatypes.NewJSONSlice([]int{3, 2, 1}),
		Correct:   false, SequenceLength: 3,
	}))
	require.NoError(t, UpsertMemory(&models.MemoryResponse{
		EvaluationID: eval.ID, QuestionID: q.ID,
		Presented: datatypes.NewJSONSlice([]int{1, 2, 3}),
		Answered:  datatypes.NewJSONSlice([]int{1, 2, 3}),
		Correct:   true, SequenceLength: 3,
	}))

	var rows []models.MemoryResponse
	require.NoError(t, db.Where("evaluation_id = ?", eval.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Correct)
}

func TestUpsertKeyIsPerEvaluation(t *testing.T) {
	db := setupDB(t)
	eval, q := seedOneQuestion(t, db, models.KindBigFive)
	other := models.Evaluation{FullName: "Y", NationalID: "1798765432", Email: "y@example.com"}
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, UpsertPsychometric(&models.PsychometricResponse{
		EvaluationID: eval.ID, QuestionID: q.ID, Value: 1,
	}))
	require.NoError(t, UpsertPsychometric(&models.PsychometricResponse{
		EvaluationID: other.ID, QuestionID: q.ID, Value: 4,
	}))

	var count int64
	require.NoError(t, db.Model(&models.PsychometricResponse{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestPsychometricByTestKindFiltersInstruments(t *testing.T) {
	db := setupDB(t)
	eval, bfQ := seedOneQuestion(t, db, models.KindBigFive)

	obTest := models.Test{Kind: models.KindObedience, Name: "OB", Position: 2, Active: true}
	require.NoError(t, db.Create(&obTest).Error)
	obQ := models.Question{TestID: obTest.ID, Text: "ob item", Dimension: models.DimObedDiscipline}
	require.NoError(t, db.Create(&obQ).Error)

	require.NoError(t, UpsertPsychometric(&models.PsychometricResponse{
		EvaluationID: eval.ID, QuestionID: bfQ.ID, Value: 3,
	}))
	require.NoError(t, UpsertPsychometric(&models.PsychometricResponse{
		EvaluationID: eval.ID, QuestionID: obQ.ID, Value: 5,
	}))

	rows, err := PsychometricByTestKind(eval.ID, models.KindObedience)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, obQ.ID, rows[0].QuestionID)
	require.Equal(t, models.DimObedDiscipline, rows[0].Question.Dimension)
}

func TestHasPendingProjective(t *testing.T) {
	db := setupDB(t)
	eval, _ := seedOneQuestion(t, db, models.KindTree)

	var test models.Test
	require.NoError(t, db.Where("kind = ?", models.KindTree).First(&test).Error)

	row := &models.ProjectiveResponse{
		EvaluationID: eval.ID,
		TestID:       test.ID,
		Kind:         models.ProjectiveDrawing,
		CanvasImage:  "aGVsbG8=",
	}
	require.NoError(t, CreateProjective(row))

	pending, err := HasPendingProjective(eval.ID)
	require.NoError(t, err)
	require.True(t, pending)

	score := 7
	row.ManualScore = &score
	row.Reviewed = true
	require.NoError(t, SaveProjective(row))

	pending, err = HasPendingProjective(eval.ID)
	require.NoError(t, err)
	require.False(t, pending)
}

func TestSweepExpired(t *testing.T) {
	db := setupDB(t)

	stale := models.Evaluation{FullName: "A", NationalID: "1712345678", Email: "a@example.com"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	fresh := models.Evaluation{FullName: "B", NationalID: "1787654321", Email: "b@example.com"}
	require.NoError(t, db.Create(&fresh).Error)

	n, err := SweepExpired(time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	var reloaded models.Evaluation
	require.NoError(t, db.First(&reloaded, stale.ID).Error)
	require.Equal(t, models.StatusExpired, reloaded.Status)

	require.NoError(t, db.First(&reloaded, fresh.ID).Error)
	require.Equal(t, models.StatusPending, reloaded.Status)
}
