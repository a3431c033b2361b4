package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/database"
	"github.com/bambinounos/psicoeval/internal/models"
)

var dbSeq atomic.Int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

const fixture = `
profiles:
  - name: "Perfil Estándar"
    min_responsibility: 4.0
    max_neuroticism: 3.0
    min_commitment: 3.5
    min_obedience: 3.5
    min_memory: 60
    min_matrices: 50
    verdict_method: CONTEO_FALLOS

evaluators:
  - email: "admin@example.com"
    name: "Admin"
    password: "secreto"

tests:
  - kind: BIGFIVE
    name: "Big Five"
    position: 1
    items_to_apply: 2
    questions:
      - ref: a
        text: "soy ordenado"
        scale: LIKERT5
        dimension: BF_RESP
      - ref: b
        text: "soy desordenado"
        scale: LIKERT5
        dimension: BF_RESP
        reversed: true
        pair: a
  - kind: MEMORIA
    name: "Memoria"
    position: 2
    questions:
      - text: "secuencia"
        scale: SECUENCIA
        sequence: [1, 2, 3]
  - kind: SITUACIONAL
    name: "Situacional"
    position: 3
    questions:
      - text: "dilema"
        scale: OPCION_MULTIPLE
        dimension: SIT_RESP
        options:
          - { text: "mejor", value: 5 }
          - { text: "peor", value: 0 }
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndApply(t *testing.T) {
	db := setupDB(t)
	bank, err := Load(writeFixture(t, fixture))
	require.NoError(t, err)
	require.NoError(t, Apply(db, bank))

	var tests []models.Test
	require.NoError(t, db.Order("position").Find(&tests).Error)
	require.Len(t, tests, 3)
	require.Equal(t, models.KindBigFive, tests[0].Kind)
	require.Equal(t, 2, tests[0].BankSize)
	require.Equal(t, 2, tests[0].ItemsToApply)
	require.False(t, tests[0].Projective)

	// Consistency pair links are symmetric.
	var questions []models.Question
	require.NoError(t, db.Where("test_id = ?", tests[0].ID).Order("position").Find(&questions).Error)
	require.Len(t, questions, 2)
	require.NotNil(t, questions[0].ConsistencyPairID)
	require.NotNil(t, questions[1].ConsistencyPairID)
	require.Equal(t, questions[1].ID, *questions[0].ConsistencyPairID)
	require.Equal(t, questions[0].ID, *questions[1].ConsistencyPairID)

	// Memory sequences round-trip.
	var memQ models.Question
	require.NoError(t, db.Where("test_id = ?", tests[1].ID).First(&memQ).Error)
	require.Equal(t, []int{1, 2, 3}, []int(memQ.CorrectSequence))

	// Options keep their values.
	var opts []models.Option
	require.NoError(t, db.Order("position").Find(&opts).Error)
	require.Len(t, opts, 2)
	require.Equal(t, 5, opts[0].Value)

	// The evaluator password is stored hashed.
	var admin models.Evaluator
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	require.NotEqual(t, "secreto", admin.Password)
	require.True(t, admin.CheckPassword("secreto"))
}

func TestIfEmptySkipsSeededDatabase(t *testing.T) {
	db := setupDB(t)
	path := writeFixture(t, fixture)
	log := zap.NewNop()

	require.NoError(t, IfEmpty(db, path, log))
	require.NoError(t, IfEmpty(db, path, log))

	var count int64
	require.NoError(t, db.Model(&models.Test{}).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestApplyRejectsUnknownKind(t *testing.T) {
	db := setupDB(t)
	bank := &Bank{Tests: []TestSpec{{Kind: "INVENTADO", Name: "x"}}}
	require.Error(t, Apply(db, bank))
}

func TestApplyRejectsDanglingPairRef(t *testing.T) {
	db := setupDB(t)
	bank := &Bank{Tests: []TestSpec{{
		Kind: "BIGFIVE",
		Name: "bf",
		Questions: []QuestionSpec{
			{Ref: "a", Text: "x", Scale: "LIKERT5", Pair: "missing"},
		},
	}}}
	require.Error(t, Apply(db, bank))
}
