package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Each limiter carries its own store: burning through one endpoint's budget
// must not lock the same IP out of the other.
func TestLimiterBudgetsAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/verify", newIPLimiter(time.Minute, 2), ok)
	r.POST("/login", newIPLimiter(time.Minute, 2), ok)

	do := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w.Code
	}

	require.Equal(t, http.StatusOK, do("/verify"))
	require.Equal(t, http.StatusOK, do("/verify"))
	require.Equal(t, http.StatusTooManyRequests, do("/verify"))

	require.Equal(t, http.StatusOK, do("/login"))
	require.Equal(t, http.StatusOK, do("/login"))
	require.Equal(t, http.StatusTooManyRequests, do("/login"))
}

func TestLimiterRejectsWithLocalizedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", newIPLimiter(time.Minute, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Contains(t, second.Body.String(), "demasiados intentos")
}
