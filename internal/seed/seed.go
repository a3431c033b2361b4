// Package seed loads the question bank fixture and populates an empty
// database with the instrument catalog, target profiles and panel accounts.
package seed

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bambinounos/psicoeval/internal/models"
)

// Bank is the on-disk fixture format. Question refs are file-local labels
// used only to link consistency pairs; they are not persisted.
type Bank struct {
	Profiles   []ProfileSpec   `yaml:"profiles"`
	Evaluators []EvaluatorSpec `yaml:"evaluators"`
	Tests      []TestSpec      `yaml:"tests"`
}

type ProfileSpec struct {
	Name              string  `yaml:"name"`
	MinResponsibility float64 `yaml:"min_responsibility"`
	MinAgreeableness  float64 `yaml:"min_agreeableness"`
	MaxNeuroticism    float64 `yaml:"max_neuroticism"`
	MinOpenness       float64 `yaml:"min_openness"`
	MinExtraversion   float64 `yaml:"min_extraversion"`
	MinCommitment     float64 `yaml:"min_commitment"`
	MinObedience      float64 `yaml:"min_obedience"`
	MinMemory         float64 `yaml:"min_memory"`
	MinMatrices       float64 `yaml:"min_matrices"`
	MinSituational    float64 `yaml:"min_situational"`
	MinAttention      float64 `yaml:"min_attention"`
	VerdictMethod     string  `yaml:"verdict_method"`
}

type EvaluatorSpec struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type TestSpec struct {
	Kind             string         `yaml:"kind"`
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	Instructions     string         `yaml:"instructions"`
	TimeLimitMinutes *int           `yaml:"time_limit_minutes"`
	Position         int            `yaml:"position"`
	ItemsToApply     int            `yaml:"items_to_apply"`
	Questions        []QuestionSpec `yaml:"questions"`
}

type QuestionSpec struct {
	Ref       string       `yaml:"ref"`
	Text      string       `yaml:"text"`
	Scale     string       `yaml:"scale"`
	Dimension string       `yaml:"dimension"`
	Reversed  bool         `yaml:"reversed"`
	Pair      string       `yaml:"pair"` // ref of the consistency twin
	Sequence  []int        `yaml:"sequence"`
	ImagePath string       `yaml:"image_path"`
	Options   []OptionSpec `yaml:"options"`
}

type OptionSpec struct {
	Text      string `yaml:"text"`
	Value     int    `yaml:"value"`
	ImagePath string `yaml:"image_path"`
}

// Load parses a bank fixture file.
func Load(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bank fixture: %w", err)
	}
	var b Bank
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parsing bank fixture: %w", err)
	}
	return &b, nil
}

// IfEmpty seeds the catalog only when no tests exist yet, so a restarted
// server never duplicates or resets administrator-edited banks.
func IfEmpty(db *gorm.DB, bankPath string, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.Test{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Question bank already present, skipping seed", zap.Int64("tests", count))
		return nil
	}
	bank, err := Load(bankPath)
	if err != nil {
		return err
	}
	if err := Apply(db, bank); err != nil {
		return err
	}
	log.Info("Question bank seeded",
		zap.String("path", bankPath),
		zap.Int("tests", len(bank.Tests)),
		zap.Int("profiles", len(bank.Profiles)),
	)
	return nil
}

// Apply inserts the fixture contents in one transaction. Consistency pairs
// are linked in a second pass once every question has an ID, and the links
// are made symmetric.
func Apply(db *gorm.DB, bank *Bank) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, p := range bank.Profiles {
			profile := models.TargetProfile{
				Name:              p.Name,
				MinResponsibility: p.MinResponsibility,
				MinAgreeableness:  p.MinAgreeableness,
				MaxNeuroticism:    p.MaxNeuroticism,
				MinOpenness:       p.MinOpenness,
				MinExtraversion:   p.MinExtraversion,
				MinCommitment:     p.MinCommitment,
				MinObedience:      p.MinObedience,
				MinMemory:         p.MinMemory,
				MinMatrices:       p.MinMatrices,
				MinSituational:    p.MinSituational,
				MinAttention:      p.MinAttention,
				VerdictMethod:     models.VerdictMethod(p.VerdictMethod),
				Active:            true,
			}
			if profile.VerdictMethod == "" {
				profile.VerdictMethod = models.MethodFailureCount
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		}

		for _, e := range bank.Evaluators {
			u := models.Evaluator{Email: e.Email, Name: e.Name}
			if err := u.SetPassword(e.Password); err != nil {
				return err
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
		}

		byRef := make(map[string]*models.Question)
		pairRefs := make(map[string]string)

		for _, t := range bank.Tests {
			kind := models.TestKind(t.Kind)
			if !kind.Valid() {
				return fmt.Errorf("unknown test kind %q in bank fixture", t.Kind)
			}
			test := models.Test{
				Kind:             kind,
				Name:             t.Name,
				Description:      t.Description,
				Instructions:     t.Instructions,
				TimeLimitMinutes: t.TimeLimitMinutes,
				Position:         t.Position,
				Active:           true,
				Projective:       kind.Projective(),
				BankSize:         len(t.Questions),
				ItemsToApply:     t.ItemsToApply,
			}
			if err := tx.Create(&test).Error; err != nil {
				return err
			}

			for i, q := range t.Questions {
				question := models.Question{
					TestID:    test.ID,
					Text:      q.Text,
					Scale:     models.ScaleType(q.Scale),
					Dimension: models.Dimension(q.Dimension),
					Reversed:  q.Reversed,
					Position:  i + 1,
					ImagePath: q.ImagePath,
				}
				if question.Dimension == "" {
					question.Dimension = models.DimGeneral
				}
				if len(q.Sequence) > 0 {
					question.CorrectSequence = datatypes.NewJSONSlice(q.Sequence)
				}
				if err := tx.Create(&question).Error; err != nil {
					return err
				}
				for j, o := range q.Options {
					opt := models.Option{
						QuestionID: question.ID,
						Text:       o.Text,
						Value:      o.Value,
						ImagePath:  o.ImagePath,
						Position:   j + 1,
					}
					if err := tx.Create(&opt).Error; err != nil {
						return err
					}
				}
				if q.Ref != "" {
					byRef[q.Ref] = &question
				}
				if q.Pair != "" {
					if q.Ref == "" {
						return fmt.Errorf("question %q declares a pair but no ref", q.Text)
					}
					pairRefs[q.Ref] = q.Pair
				}
			}
		}

		for ref, pairRef := range pairRefs {
			q, ok := byRef[ref]
			if !ok {
				continue
			}
			twin, ok := byRef[pairRef]
			if !ok {
				return fmt.Errorf("consistency pair ref %q not found (linked from %q)", pairRef, ref)
			}
			if err := tx.Model(q).Update("consistency_pair_id", twin.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(twin).Update("consistency_pair_id", q.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
