package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bambinounos/psicoeval/internal/models"
	"github.com/bambinounos/psicoeval/internal/repository"
)

// Suggestion is one AI grade attached to the responses it covers. Drawing and
// color instruments produce one suggestion per artifact; the sentences
// instrument produces a single suggestion spanning every stem.
type Suggestion struct {
	TestKind    models.TestKind `json:"test_kind"`
	TestName    string          `json:"test_name"`
	ResponseIDs []uint          `json:"response_ids"`
	Grade       GradeResult     `json:"grade"`
}

// GradeProjectives runs the AI grader over every projective artifact of an
// evaluation and returns the suggestions for evaluator review. Nothing is
// persisted here; grades only become scores when the evaluator applies them.
func GradeProjectives(ctx context.Context, grader Grader, log *zap.Logger, evalID uint) ([]Suggestion, error) {
	rows, err := repository.ProjectiveResponses(evalID)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	var sentences []SentenceAnswer
	var sentenceIDs []uint
	sentencesName := ""

	for _, r := range rows {
		kind := r.Test.Kind
		switch kind {
		case models.KindTree, models.KindPersonRain:
			grade := grader.GradeDrawing(ctx, r.Test.Name, r.CanvasImage)
			suggestions = append(suggestions, Suggestion{
				TestKind:    kind,
				TestName:    r.Test.Name,
				ResponseIDs: []uint{r.ID},
				Grade:       grade,
			})
		case models.KindColors:
			grade := grader.GradeColors(ctx, r.Text)
			suggestions = append(suggestions, Suggestion{
				TestKind:    kind,
				TestName:    r.Test.Name,
				ResponseIDs: []uint{r.ID},
				Grade:       grade,
			})
		case models.KindSentences:
			stem, dim := "", string(models.DimGeneral)
			if r.Question != nil {
				stem = r.Question.Text
				dim = string(r.Question.Dimension)
			}
			sentences = append(sentences, SentenceAnswer{
				Dimension: dim,
				Stem:      stem,
				Answer:    r.Text,
			})
			sentenceIDs = append(sentenceIDs, r.ID)
			sentencesName = r.Test.Name
		default:
			log.Warn("projective response on a non-projective instrument",
				zap.Uint("response_id", r.ID),
				zap.String("kind", string(kind)))
		}
	}

	if len(sentences) > 0 {
		grade := grader.GradeSentences(ctx, sentences)
		suggestions = append(suggestions, Suggestion{
			TestKind:    models.KindSentences,
			TestName:    sentencesName,
			ResponseIDs: sentenceIDs,
			Grade:       grade,
		})
	}
	return suggestions, nil
}

// ApplyGrades marks the covered responses as reviewed with the suggested
// score and interpretation, then returns how many rows changed. The caller
// recomputes the evaluation afterwards.
func ApplyGrades(evalID uint, suggestions []Suggestion) (int, error) {
	rows, err := repository.ProjectiveResponses(evalID)
	if err != nil {
		return 0, err
	}
	byID := make(map[uint]*models.ProjectiveResponse, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	now := time.Now()
	applied := 0
	for _, s := range suggestions {
		for _, id := range s.ResponseIDs {
			r, ok := byID[id]
			if !ok {
				continue
			}
			score := s.Grade.Score
			r.ManualScore = &score
			r.EvaluatorNote = s.Grade.Interpretation
			r.Reviewed = true
			r.ReviewedAt = &now
			if err := repository.SaveProjective(r); err != nil {
				return applied, err
			}
			applied++
		}
	}
	return applied, nil
}
