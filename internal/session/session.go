// Package session implements the evaluation lifecycle: token access, lazy
// expiration, candidate identity verification, per-test navigation and the
// two-phase finalize.
package session

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bambinounos/psicoeval/internal/apperr"
	"github.com/bambinounos/psicoeval/internal/config"
	"github.com/bambinounos/psicoeval/internal/models"
	"github.com/bambinounos/psicoeval/internal/monitoring"
	"github.com/bambinounos/psicoeval/internal/repository"
	"github.com/bambinounos/psicoeval/internal/scoring"
	"github.com/bambinounos/psicoeval/internal/selector"
	"github.com/bambinounos/psicoeval/internal/utils"
)

type Service struct {
	log      *zap.Logger
	selector *selector.Selector
}

func New(log *zap.Logger) *Service {
	return &Service{log: log, selector: selector.New()}
}

// ByToken resolves an evaluation from its access token. A pending session
// past its TTL is transitioned to EXPIRADA on this access; the check-and-set
// is idempotent, there is no background dependency.
func (s *Service) ByToken(token string) (*models.Evaluation, error) {
	eval, err := repository.EvaluationByToken(token)
	if err != nil {
		return nil, err
	}
	if eval.Status == models.StatusPending && eval.IsExpired(time.Now()) {
		if err := repository.MarkExpired(eval.ID); err != nil {
			return nil, err
		}
		eval.Status = models.StatusExpired
	}
	return eval, nil
}

// Verify confirms the candidate's identity against the stored national ID.
// On the first successful verification the question subset is selected and
// persisted, the session transitions to EN_CURSO and the first active
// instrument becomes current. A failed match changes nothing.
func (s *Service) Verify(token, nationalID, clientIP, userAgent string) (*models.Evaluation, *models.Test, error) {
	eval, err := s.ByToken(token)
	if err != nil {
		return nil, nil, err
	}
	if eval.Status == models.StatusExpired {
		return nil, nil, apperr.ErrExpired
	}
	if eval.Status != models.StatusPending {
		return nil, nil, fmt.Errorf("%w: la evaluación ya fue iniciada", apperr.ErrConflict)
	}
	if !utils.IsValidNationalID(nationalID) {
		return nil, nil, fmt.Errorf("%w: el número de cédula no es válido", apperr.ErrValidation)
	}
	if nationalID != eval.NationalID {
		return nil, nil, fmt.Errorf("%w: la cédula ingresada no coincide con la registrada", apperr.ErrValidation)
	}

	first, err := repository.FirstActiveTest()
	if err != nil {
		return nil, nil, err
	}

	// Selected once, never regenerated for the same session.
	if len(eval.SelectedQuestionIDs) == 0 {
		tests, err := repository.ActiveTests()
		if err != nil {
			return nil, nil, err
		}
		eval.SelectedQuestionIDs = s.selector.Select(tests)
	}

	now := time.Now()
	eval.Status = models.StatusInProgress
	eval.StartedAt = &now
	eval.AccessIP = clientIP
	eval.UserAgent = userAgent
	eval.CurrentTestID = &first.ID
	if err := repository.SaveEvaluation(eval); err != nil {
		return nil, nil, err
	}

	s.log.Info("Candidate verified, evaluation started",
		zap.Uint("evaluation_id", eval.ID),
		zap.String("client_ip", clientIP),
	)
	return eval, first, nil
}

// TestPage resolves the instrument the candidate is on, moves the resumability
// pointer, and computes the next instrument (nil means the session should
// finalize next).
func (s *Service) TestPage(token string, kind models.TestKind) (*models.Evaluation, *models.Test, *models.Test, error) {
	eval, err := s.ByToken(token)
	if err != nil {
		return nil, nil, nil, err
	}
	if eval.Status == models.StatusExpired {
		return nil, nil, nil, apperr.ErrExpired
	}
	if eval.Status != models.StatusInProgress {
		return nil, nil, nil, fmt.Errorf("%w: la evaluación no está en curso", apperr.ErrConflict)
	}
	if !kind.Valid() {
		return nil, nil, nil, apperr.ErrNotFound
	}
	test, err := repository.ActiveTestByKind(kind)
	if err != nil {
		return nil, nil, nil, err
	}

	eval.CurrentTestID = &test.ID
	if err := repository.SaveEvaluation(eval); err != nil {
		return nil, nil, nil, err
	}

	next, err := repository.NextActiveTest(test.Position)
	if err != nil {
		return nil, nil, nil, err
	}
	return eval, test, next, nil
}

// QuestionsFor returns the session's selected questions belonging to one
// instrument, in selection order.
func (s *Service) QuestionsFor(eval *models.Evaluation, test *models.Test) ([]models.Question, error) {
	all, err := repository.QuestionsByIDs(eval.SelectedQuestionIDs)
	if err != nil {
		return nil, err
	}
	var out []models.Question
	for _, q := range all {
		if q.TestID == test.ID {
			out = append(out, q)
		}
	}
	return out, nil
}

// Cancel administratively closes a session: the invitation link stops
// working and no further answers are accepted. Sessions already reviewed,
// expired or cancelled are left as they are.
func (s *Service) Cancel(evalID uint) (*models.Evaluation, error) {
	eval, err := repository.EvaluationByID(evalID)
	if err != nil {
		return nil, err
	}
	switch eval.Status {
	case models.StatusReviewed, models.StatusExpired, models.StatusCancelled:
		return nil, fmt.Errorf("%w: la evaluación ya está cerrada", apperr.ErrConflict)
	}

	eval.Status = models.StatusCancelled
	eval.CurrentTestID = nil
	if err := repository.SaveEvaluation(eval); err != nil {
		return nil, err
	}

	s.log.Info("Evaluation cancelled",
		zap.Uint("evaluation_id", eval.ID),
	)
	return eval, nil
}

// Finalize closes the session in two phases. Phase 1, the state transition,
// always succeeds for a session in progress. Phase 2 runs scoring isolated:
// a scoring failure is logged and counted for operators but never surfaced,
// so the candidate-facing finalize cannot be blocked by a scoring bug.
func (s *Service) Finalize(token string) (*models.Evaluation, error) {
	eval, err := s.ByToken(token)
	if err != nil {
		return nil, err
	}
	if eval.Status == models.StatusExpired {
		return nil, apperr.ErrExpired
	}
	if eval.Status == models.StatusCompleted || eval.Status == models.StatusReviewed {
		return eval, nil
	}
	if eval.Status != models.StatusInProgress {
		return nil, fmt.Errorf("%w: la evaluación no está en curso", apperr.ErrConflict)
	}

	now := time.Now()
	eval.Status = models.StatusCompleted
	eval.FinishedAt = &now
	eval.CurrentTestID = nil
	if err := repository.SaveEvaluation(eval); err != nil {
		return nil, err
	}

	s.scoreIsolated(eval)
	return eval, nil
}

// Recompute re-runs scoring and the verdict for an evaluation, surfacing
// errors. Used by the evaluator panel where failures should be visible.
func (s *Service) Recompute(eval *models.Evaluation) (*models.FinalResult, error) {
	return scoring.Recompute(eval, config.Conf.Profile.DefaultName)
}

func (s *Service) scoreIsolated(eval *models.Evaluation) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.ScoringFailures.Inc()
			s.log.Error("Scoring panicked during finalize",
				zap.Uint("evaluation_id", eval.ID),
				zap.Any("panic", r),
			)
		}
	}()
	if _, err := s.Recompute(eval); err != nil {
		monitoring.ScoringFailures.Inc()
		s.log.Error("Scoring failed during finalize",
			zap.Uint("evaluation_id", eval.ID),
			zap.Error(err),
		)
	}
}
