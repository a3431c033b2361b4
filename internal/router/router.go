package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/bambinounos/psicoeval/internal/config"
	"github.com/bambinounos/psicoeval/internal/handlers"
	"github.com/bambinounos/psicoeval/internal/monitoring"
	"github.com/bambinounos/psicoeval/internal/services"
	"github.com/bambinounos/psicoeval/internal/session"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "demasiados intentos, intente más tarde"})
}

// newIPLimiter builds a per-IP limiter with its own backing store, so
// exhausting one endpoint's budget cannot lock an IP out of another.
func newIPLimiter(window time.Duration, limit uint) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  window,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})
}

// Setup wires middleware, handlers and routes into the gin engine.
func Setup(log *zap.Logger, sessionService *session.Service, grader services.Grader, email *services.EmailService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(monitoring.MetricsMiddleware())

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})
	router.Use(sessions.Sessions("psicoeval", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	candidateHandler := handlers.NewCandidateHandler(log, sessionService)
	panelHandler := handlers.NewPanelHandler(log, sessionService, grader, email)

	// Identity verification and panel login are the brute-forceable
	// endpoints; each sits behind its own per-IP limiter.
	verifyLimiter := newIPLimiter(time.Minute, 5)
	loginLimiter := newIPLimiter(time.Minute, 5)

	router.GET("/metrics", monitoring.PrometheusHandler())

	candidate := router.Group("/api/evaluar/:token")
	{
		candidate.GET("", candidateHandler.Access)
		candidate.POST("/verificar", verifyLimiter, candidateHandler.Verify)
		candidate.GET("/prueba/:kind", candidateHandler.TestPage)
		candidate.POST("/prueba/:kind/respuestas", candidateHandler.Submit)
		candidate.POST("/finalizar", candidateHandler.Finalize)
	}

	panel := router.Group("/api/panel")
	{
		panel.POST("/login", loginLimiter, panelHandler.Login)
		panel.POST("/logout", panelHandler.Logout)

		authed := panel.Group("", handlers.RequireEvaluator())
		{
			authed.GET("/perfiles", panelHandler.ListProfiles)
			authed.GET("/evaluaciones", panelHandler.ListEvaluations)
			authed.POST("/evaluaciones", panelHandler.CreateEvaluation)
			authed.GET("/evaluaciones/:id", panelHandler.EvaluationDetail)
			authed.POST("/evaluaciones/:id/cancelar", panelHandler.Cancel)
			authed.POST("/evaluaciones/:id/recalcular", panelHandler.Recompute)
			authed.POST("/evaluaciones/:id/ia", panelHandler.SuggestGrades)
			authed.POST("/evaluaciones/:id/ia/aplicar", panelHandler.ApplyGrades)
			authed.POST("/evaluaciones/:id/revision", panelHandler.Review)
			authed.POST("/evaluaciones/:id/veredicto", panelHandler.SetVerdict)
			authed.GET("/comparativa", panelHandler.Comparative)
		}
	}

	return router
}
