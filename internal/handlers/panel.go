package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bambinounos/psicoeval/internal/apperr"
	"github.com/bambinounos/psicoeval/internal/models"
	"github.com/bambinounos/psicoeval/internal/repository"
	"github.com/bambinounos/psicoeval/internal/services"
	"github.com/bambinounos/psicoeval/internal/session"
	"github.com/bambinounos/psicoeval/internal/utils"
)

// PanelHandler serves the evaluator side: authentication, evaluation
// administration, projective review and verdict overrides.
type PanelHandler struct {
	log      *zap.Logger
	sessions *session.Service
	grader   services.Grader
	email    *services.EmailService
}

func NewPanelHandler(log *zap.Logger, sessions *session.Service, grader services.Grader, email *services.EmailService) *PanelHandler {
	return &PanelHandler{log: log, sessions: sessions, grader: grader, email: email}
}

const evaluatorIDKey = "evaluatorID"

// Login authenticates a panel account and stores it in the cookie session.
func (h *PanelHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "correo y contraseña son obligatorios"})
		return
	}
	user, err := repository.EvaluatorByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciales inválidas"})
		return
	}

	sess := sessions.Default(c)
	sess.Set(evaluatorIDKey, user.ID)
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo iniciar sesión"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": user.Name, "email": user.Email})
}

func (h *PanelHandler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo cerrar sesión"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

// RequireEvaluator guards panel routes behind the cookie session.
func RequireEvaluator() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		id, ok := sess.Get(evaluatorIDKey).(uint)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sesión requerida"})
			return
		}
		user, err := repository.EvaluatorByID(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sesión requerida"})
			return
		}
		c.Set("evaluator", user)
		c.Next()
	}
}

// CreateEvaluation registers a candidate session and sends the invitation.
func (h *PanelHandler) CreateEvaluation(c *gin.Context) {
	var req struct {
		FullName   string `json:"full_name" binding:"required"`
		NationalID string `json:"national_id" binding:"required"`
		Email      string `json:"email" binding:"required"`
		Phone      string `json:"phone"`
		AppliedFor string `json:"applied_for"`
		ProfileID  *uint  `json:"profile_id"`
		TTLHours   int    `json:"ttl_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan campos obligatorios"})
		return
	}
	if !utils.IsValidNationalID(req.NationalID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el número de cédula no es válido"})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el correo no es válido"})
		return
	}
	if req.ProfileID != nil {
		if _, err := repository.ProfileByID(*req.ProfileID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "el perfil indicado no existe"})
			return
		}
	}

	eval := &models.Evaluation{
		FullName:   req.FullName,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		AppliedFor: req.AppliedFor,
		ProfileID:  req.ProfileID,
	}
	if req.TTLHours > 0 {
		eval.ExpiresAt = time.Now().Add(time.Duration(req.TTLHours) * time.Hour)
	}
	if err := repository.CreateEvaluation(eval); err != nil {
		abortWithError(c, err)
		return
	}
	h.email.SendInvitation(eval)

	c.JSON(http.StatusCreated, gin.H{
		"id":         eval.ID,
		"link":       h.email.EvaluationLink(eval),
		"expires_at": eval.ExpiresAt,
	})
}

// ListEvaluations returns finished sessions with their verdicts.
func (h *PanelHandler) ListEvaluations(c *gin.Context) {
	evals, err := repository.FinishedEvaluations()
	if err != nil {
		abortWithError(c, err)
		return
	}
	ids := make([]uint, len(evals))
	for i, e := range evals {
		ids[i] = e.ID
	}
	results, err := repository.ResultsForEvaluations(ids)
	if err != nil {
		abortWithError(c, err)
		return
	}

	type row struct {
		Evaluation models.Evaluation   `json:"evaluation"`
		Result     *models.FinalResult `json:"result,omitempty"`
		Verdict    *models.Verdict     `json:"verdict,omitempty"`
	}
	out := make([]row, 0, len(evals))
	for _, e := range evals {
		r := row{Evaluation: e}
		if res, ok := results[e.ID]; ok {
			res := res
			v := res.FinalVerdict()
			r.Result = &res
			r.Verdict = &v
		}
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

// EvaluationDetail returns one session with its result and projective
// artifacts awaiting review.
func (h *PanelHandler) EvaluationDetail(c *gin.Context) {
	eval, ok := h.evalParam(c)
	if !ok {
		return
	}
	resp := gin.H{"evaluation": eval}
	if result, err := repository.ResultByEvaluationID(eval.ID); err == nil {
		resp["result"] = result
		resp["verdict"] = result.FinalVerdict()
	}
	if projectives, err := repository.ProjectiveResponses(eval.ID); err == nil {
		resp["projectives"] = projectives
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel administratively closes an evaluation, invalidating its invitation
// link. Sessions that already reached a closed state cannot be cancelled.
func (h *PanelHandler) Cancel(c *gin.Context) {
	eval, ok := h.evalParam(c)
	if !ok {
		return
	}
	cancelled, err := h.sessions.Cancel(eval.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": cancelled.ID, "status": cancelled.Status})
}

// Recompute re-runs scoring on demand, surfacing errors to the evaluator.
func (h *PanelHandler) Recompute(c *gin.Context) {
	eval, ok := h.evalParam(c)
	if !ok {
		return
	}
	result, err := h.sessions.Recompute(eval)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "verdict": result.FinalVerdict()})
}

// SuggestGrades runs the AI grader over the session's projective artifacts.
// Suggestions are advisory; nothing is persisted until applied.
func (h *PanelHandler) SuggestGrades(c *gin.Context) {
	eval, ok := h.evalParam(c)
	if !ok {
		return
	}
	suggestions, err := services.GradeProjectives(c.Request.Context(), h.grader, h.log, eval.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// ApplyGrades persists a set of suggestions as reviewed scores, then
// recomputes. The evaluator may have edited the scores before applying.
func (h *PanelHandler) ApplyGrades(c *gin.Context) {
	eval, ok := h.evalParam(c)
	if !ok {
		return
	}
	var req struct {
		Suggestions []services.Suggestion `json:"suggestions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sugerencias inválidas"})
		return
	}
	applied, err := services.ApplyGrades(eval.ID, req.Suggestions)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.finishReview(c, eval, gin.H{"applied": applied})
}

// Review records evaluator-entered projective scores.
func (h *PanelHandler) Review(c *gin.Context) {
	eval, ok := h.evalParam(c)
	if !ok {
		return
	}
	var req struct {
		Scores []struct {
			ResponseID uint   `json:"response_id" binding:"required"`
			Score      int    `json:"score" binding:"required"`
			Note       string `json:"note"`
		} `json:"scores" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "puntuaciones inválidas"})
		return
	}

	rows, err := repository.ProjectiveResponses(eval.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	byID := make(map[uint]*models.ProjectiveResponse, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	now := time.Now()
	for _, s := range req.Scores {
		r, ok := byID[s.ResponseID]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "la respuesta no pertenece a esta evaluación"})
			return
		}
		if s.Score < 1 || s.Score > 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "la puntuación debe estar entre 1 y 10"})
			return
		}
		score := s.Score
		r.ManualScore = &score
		r.EvaluatorNote = s.Note
		r.Reviewed = true
		r.ReviewedAt = &now
		if err := repository.SaveProjective(r); err != nil {
			abortWithError(c, err)
			return
		}
	}
	h.finishReview(c, eval, gin.H{"reviewed": len(req.Scores)})
}

// SetVerdict records a manual verdict override.
func (h *PanelHandler) SetVerdict(c *gin.Context) {
	eval, ok := h.evalParam(c)
	if !ok {
		return
	}
	var req struct {
		Verdict      string `json:"verdict" binding:"required"`
		Observations string `json:"observations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "veredicto inválido"})
		return
	}
	verdict := models.Verdict(req.Verdict)
	switch verdict {
	case models.VerdictPass, models.VerdictFail, models.VerdictReview:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "veredicto desconocido"})
		return
	}

	result, err := repository.GetOrCreateResult(eval.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	result.ManualVerdict = &verdict
	if req.Observations != "" {
		result.Observations = req.Observations
	}
	if err := repository.SaveResult(result); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdict": result.FinalVerdict()})
}

// finishReview recomputes after a review write and promotes the session to
// REVISADA once no projective artifact remains pending.
func (h *PanelHandler) finishReview(c *gin.Context, eval *models.Evaluation, extra gin.H) {
	result, err := h.sessions.Recompute(eval)
	if err != nil {
		abortWithError(c, err)
		return
	}
	pending, err := repository.HasPendingProjective(eval.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !pending && eval.Status == models.StatusCompleted {
		eval.Status = models.StatusReviewed
		if err := repository.SaveEvaluation(eval); err != nil {
			abortWithError(c, err)
			return
		}
	}

	resp := gin.H{
		"status":  eval.Status,
		"result":  result,
		"verdict": result.FinalVerdict(),
	}
	for k, v := range extra {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// ListProfiles returns the target profiles for the creation form.
func (h *PanelHandler) ListProfiles(c *gin.Context) {
	profiles, err := repository.ActiveProfiles()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *PanelHandler) evalParam(c *gin.Context) (*models.Evaluation, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		abortWithError(c, apperr.ErrNotFound)
		return nil, false
	}
	eval, err := repository.EvaluationByID(uint(id))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return eval, true
}
