package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/bambinounos/psicoeval/internal/apperr"
	"github.com/bambinounos/psicoeval/internal/models"
	"github.com/bambinounos/psicoeval/internal/repository"
	"github.com/bambinounos/psicoeval/internal/scoring"
	"github.com/bambinounos/psicoeval/internal/session"
)

// CandidateHandler serves the token-gated candidate flow: access, identity
// verification, instrument pages, answer capture and finalize.
type CandidateHandler struct {
	log      *zap.Logger
	sessions *session.Service
}

func NewCandidateHandler(log *zap.Logger, sessions *session.Service) *CandidateHandler {
	return &CandidateHandler{log: log, sessions: sessions}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}

// Access is the landing endpoint for an invitation link. A finished session
// points the candidate at the closing page instead of restarting anything.
func (h *CandidateHandler) Access(c *gin.Context) {
	eval, err := h.sessions.ByToken(c.Param("token"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if eval.Status == models.StatusExpired {
		abortWithError(c, apperr.ErrExpired)
		return
	}

	resp := gin.H{
		"full_name":   eval.FullName,
		"applied_for": eval.AppliedFor,
		"status":      eval.Status,
		"expires_at":  eval.ExpiresAt,
	}
	switch eval.Status {
	case models.StatusCompleted, models.StatusReviewed:
		resp["finished"] = true
	case models.StatusInProgress:
		if eval.CurrentTest != nil {
			resp["current_test"] = eval.CurrentTest.Kind
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Verify checks the candidate's national ID and starts the session.
func (h *CandidateHandler) Verify(c *gin.Context) {
	var req struct {
		NationalID string `json:"cedula" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "debe ingresar su número de cédula"})
		return
	}

	eval, first, err := h.sessions.Verify(c.Param("token"), req.NationalID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     eval.Status,
		"first_test": first.Kind,
	})
}

// TestPage returns one instrument with the session's selected questions and
// the kind of the next instrument; next is null when finalize comes next.
func (h *CandidateHandler) TestPage(c *gin.Context) {
	kind := models.TestKind(c.Param("kind"))
	eval, test, next, err := h.sessions.TestPage(c.Param("token"), kind)
	if err != nil {
		abortWithError(c, err)
		return
	}
	questions, err := h.sessions.QuestionsFor(eval, test)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Correct answers never leave the server.
	for i := range questions {
		questions[i].CorrectSequence = nil
	}

	resp := gin.H{
		"test":      test,
		"questions": questions,
	}
	if next != nil {
		resp["next_test"] = next.Kind
	}
	c.JSON(http.StatusOK, resp)
}

// Submit captures one answer for the instrument the candidate is on. The
// request shape depends on the instrument's response class; grading that can
// be derived mechanically (sequence match, correct option, difference sets)
// happens here at write time.
func (h *CandidateHandler) Submit(c *gin.Context) {
	kind := models.TestKind(c.Param("kind"))
	if !kind.Valid() {
		abortWithError(c, apperr.ErrNotFound)
		return
	}
	eval, err := h.sessions.ByToken(c.Param("token"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if eval.Status == models.StatusExpired {
		abortWithError(c, apperr.ErrExpired)
		return
	}
	if eval.Status != models.StatusInProgress {
		c.JSON(http.StatusConflict, gin.H{"error": "la evaluación no está en curso"})
		return
	}

	test, err := repository.ActiveTestByKind(kind)
	if err != nil {
		abortWithError(c, err)
		return
	}

	switch kind.Class() {
	case models.ClassPsychometric:
		h.submitPsychometric(c, eval, test)
	case models.ClassMemory:
		h.submitMemory(c, eval, test)
	case models.ClassMatrix:
		h.submitMatrix(c, eval, test)
	case models.ClassSituational:
		h.submitSituational(c, eval, test)
	case models.ClassAttention:
		h.submitAttention(c, eval, test)
	case models.ClassProjective:
		h.submitProjective(c, eval, test)
	default:
		abortWithError(c, apperr.ErrNotFound)
	}
}

// selectedQuestion validates that the answered question belongs to the
// instrument and to this session's selected subset.
func (h *CandidateHandler) selectedQuestion(c *gin.Context, eval *models.Evaluation, test *models.Test, questionID uint) *models.Question {
	q, err := repository.QuestionByID(questionID)
	if err != nil {
		abortWithError(c, err)
		return nil
	}
	if q.TestID != test.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "la pregunta no pertenece a esta prueba"})
		return nil
	}
	for _, id := range eval.SelectedQuestionIDs {
		if uint(id) == q.ID {
			return q
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "la pregunta no fue seleccionada para esta evaluación"})
	return nil
}

func (h *CandidateHandler) submitPsychometric(c *gin.Context, eval *models.Evaluation, test *models.Test) {
	var req struct {
		QuestionID      uint  `json:"question_id" binding:"required"`
		Value           int   `json:"value"`
		OptionID        *uint `json:"option_id"`
		ResponseTimeSec *int  `json:"response_time_sec"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "respuesta inválida"})
		return
	}
	q := h.selectedQuestion(c, eval, test, req.QuestionID)
	if q == nil {
		return
	}
	value := req.Value
	if req.OptionID != nil {
		for _, o := range q.Options {
			if o.ID == *req.OptionID {
				value = o.Value
				break
			}
		}
	}
	if value < 1 || value > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el valor debe estar entre 1 y 5"})
		return
	}
	row := &models.PsychometricResponse{
		EvaluationID:    eval.ID,
		QuestionID:      q.ID,
		Value:           value,
		OptionID:        req.OptionID,
		ResponseTimeSec: req.ResponseTimeSec,
	}
	if err := repository.UpsertPsychometric(row); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *CandidateHandler) submitMemory(c *gin.Context, eval *models.Evaluation, test *models.Test) {
	var req struct {
		QuestionID      uint  `json:"question_id" binding:"required"`
		Answered        []int `json:"answered"`
		ResponseTimeSec *int  `json:"response_time_sec"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "respuesta inválida"})
		return
	}
	q := h.selectedQuestion(c, eval, test, req.QuestionID)
	if q == nil {
		return
	}
	presented := []int(q.CorrectSequence)
	row := &models.MemoryResponse{
		EvaluationID:    eval.ID,
		QuestionID:      q.ID,
		Presented:       datatypes.NewJSONSlice(presented),
		Answered:        datatypes.NewJSONSlice(req.Answered),
		Correct:         scoring.SequencesMatch(presented, req.Answered),
		SequenceLength:  len(presented),
		ResponseTimeSec: req.ResponseTimeSec,
	}
	if err := repository.UpsertMemory(row); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true, "correct": row.Correct})
}

func (h *CandidateHandler) submitMatrix(c *gin.Context, eval *models.Evaluation, test *models.Test) {
	var req struct {
		QuestionID      uint `json:"question_id" binding:"required"`
		OptionID        uint `json:"option_id" binding:"required"`
		ResponseTimeSec *int `json:"response_time_sec"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "respuesta inválida"})
		return
	}
	q := h.selectedQuestion(c, eval, test, req.QuestionID)
	if q == nil {
		return
	}
	correct := false
	known := false
	for _, o := range q.Options {
		if o.ID == req.OptionID {
			known = true
			correct = o.Value == 1
			break
		}
	}
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "la opción no pertenece a esta pregunta"})
		return
	}
	optID := req.OptionID
	row := &models.MatrixResponse{
		EvaluationID:    eval.ID,
		QuestionID:      q.ID,
		OptionID:        &optID,
		Correct:         correct,
		ResponseTimeSec: req.ResponseTimeSec,
	}
	if err := repository.UpsertMatrix(row); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *CandidateHandler) submitSituational(c *gin.Context, eval *models.Evaluation, test *models.Test) {
	var req struct {
		QuestionID      uint   `json:"question_id" binding:"required"`
		OptionID        uint   `json:"option_id" binding:"required"`
		Justification   string `json:"justification"`
		ResponseTimeSec *int   `json:"response_time_sec"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "respuesta inválida"})
		return
	}
	q := h.selectedQuestion(c, eval, test, req.QuestionID)
	if q == nil {
		return
	}
	value := -1
	for _, o := range q.Options {
		if o.ID == req.OptionID {
			value = o.Value
			break
		}
	}
	if value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "la opción no pertenece a esta pregunta"})
		return
	}
	optID := req.OptionID
	row := &models.SituationalResponse{
		EvaluationID:    eval.ID,
		QuestionID:      q.ID,
		OptionID:        &optID,
		Value:           value,
		Justification:   req.Justification,
		ResponseTimeSec: req.ResponseTimeSec,
	}
	if err := repository.UpsertSituational(row); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *CandidateHandler) submitAttention(c *gin.Context, eval *models.Evaluation, test *models.Test) {
	var req struct {
		QuestionID      uint             `json:"question_id" binding:"required"`
		Subtype         string           `json:"subtype" binding:"required"`
		Found           []string         `json:"found"`
		OptionID        *uint            `json:"option_id"`
		Payload         map[string]any   `json:"payload"`
		ResponseTimeSec *int             `json:"response_time_sec"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "respuesta inválida"})
		return
	}
	q := h.selectedQuestion(c, eval, test, req.QuestionID)
	if q == nil {
		return
	}

	// Expected keys for set-based subtasks are the options marked correct.
	var expected []string
	for _, o := range q.Options {
		if o.Value == 1 {
			expected = append(expected, o.Text)
		}
	}

	row := &models.AttentionResponse{
		EvaluationID:    eval.ID,
		QuestionID:      q.ID,
		Subtype:         models.AttentionSubtype(req.Subtype),
		ResponseTimeSec: req.ResponseTimeSec,
	}
	switch row.Subtype {
	case models.AttentionComparison:
		row.PartialScore = scoring.DifferenceF1(req.Found, expected)
		row.Correct = row.PartialScore >= 1
	case models.AttentionVerification:
		row.PartialScore = scoring.VerificationCredit(req.Found, expected)
		row.Correct = row.PartialScore >= 1
	case models.AttentionSequence:
		if req.OptionID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "debe indicar la opción con el error"})
			return
		}
		for _, o := range q.Options {
			if o.ID == *req.OptionID && o.Value == 1 {
				row.Correct = true
			}
		}
		if row.Correct {
			row.PartialScore = 1
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "subtipo de atención desconocido"})
		return
	}

	if payload, err := marshalPayload(req.Found, req.OptionID, req.Payload); err == nil {
		row.Payload = payload
	}
	if err := repository.UpsertAttention(row); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *CandidateHandler) submitProjective(c *gin.Context, eval *models.Evaluation, test *models.Test) {
	var req struct {
		QuestionID   *uint          `json:"question_id"`
		Kind         string         `json:"kind" binding:"required"`
		CanvasImage  string         `json:"canvas_image"`
		StrokeData   map[string]any `json:"stroke_data"`
		Text         string         `json:"text"`
		TotalTimeSec *int           `json:"total_time_sec"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "respuesta inválida"})
		return
	}
	pkind := models.ProjectiveKind(req.Kind)
	switch pkind {
	case models.ProjectiveDrawing:
		if req.CanvasImage == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "falta la imagen del dibujo"})
			return
		}
	case models.ProjectiveText:
		if req.Text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "falta el texto de la respuesta"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "tipo de respuesta proyectiva desconocido"})
		return
	}
	if req.QuestionID != nil {
		if q := h.selectedQuestion(c, eval, test, *req.QuestionID); q == nil {
			return
		}
	}

	row := &models.ProjectiveResponse{
		EvaluationID: eval.ID,
		TestID:       test.ID,
		QuestionID:   req.QuestionID,
		Kind:         pkind,
		CanvasImage:  req.CanvasImage,
		Text:         req.Text,
		TotalTimeSec: req.TotalTimeSec,
	}
	if req.StrokeData != nil {
		if raw, err := marshalJSON(req.StrokeData); err == nil {
			row.StrokeData = raw
		}
	}
	if err := repository.CreateProjective(row); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// Finalize closes the session. Idempotent for already-finished sessions.
func (h *CandidateHandler) Finalize(c *gin.Context) {
	eval, err := h.sessions.Finalize(c.Param("token"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      eval.Status,
		"finished_at": eval.FinishedAt,
	})
}
