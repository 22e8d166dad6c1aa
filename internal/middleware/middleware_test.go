package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_storefront/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOriginHost(t *testing.T) {
	assert.Equal(t, "mundoreptil.com", originHost("https://mundoreptil.com:443/"))
	assert.Equal(t, "localhost:3000", originHost("http://localhost:3000"))
	assert.Empty(t, originHost("not a url"))
	assert.Empty(t, originHost(""))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"mundoreptil.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://mundoreptil.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://mundoreptil.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Cart-Id", w.Header().Get("Access-Control-Expose-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestJWTMiddleware(t *testing.T) {
	signer := utils.NewJWTSigner("secret", time.Hour)
	r := gin.New()
	r.GET("/admin", NewJWTMiddleware(signer).Handle(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("email"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := signer.Generate(7, "admin@mundoreptil.com")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@mundoreptil.com", w.Body.String())
}

func TestInvalidAuthRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewInvalidAuthRateLimiter()
	rl.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		assert.False(t, rl.Blocked("1.2.3.4"))
		rl.Fail("1.2.3.4")
	}
	assert.True(t, rl.Blocked("1.2.3.4"))
	assert.False(t, rl.Blocked("5.6.7.8"))

	now = now.Add(2 * time.Minute)
	assert.False(t, rl.Blocked("1.2.3.4"))

	rl.Fail("1.2.3.4")
	rl.Reset("1.2.3.4")
	assert.False(t, rl.Blocked("1.2.3.4"))
}

func TestInvalidAuthRateLimiter_Handle(t *testing.T) {
	rl := NewInvalidAuthRateLimiter()
	r := gin.New()
	r.POST("/login", rl.Handle(), func(c *gin.Context) {
		rl.Fail(c.ClientIP())
		c.Status(http.StatusUnauthorized)
	})

	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{401, 401, 401, 401, 401, 429}, codes)
}

func TestLoggingMiddleware_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Body.String(), 8)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-Id"))
}
