package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/config"
	"invoicedesk/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func reviewerEngine(cfg *config.JWTConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(cfg))
	r.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, middleware.GetReviewer(c)) })
	return r
}

func signToken(t *testing.T, secret string, claims middleware.ReviewerClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	r := reviewerEngine(&config.JWTConfig{DefaultUser: "user0"})

	req, _ := http.NewRequest(http.MethodGet, "/me", http.NoBody)
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user0", w.Body.String())
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "s3cret", Issuer: "invoicedesk"}
	r := reviewerEngine(cfg)

	tok := signToken(t, cfg.Secret, middleware.ReviewerClaims{
		Email: "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "invoicedesk",
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req, _ := http.NewRequest(http.MethodGet, "/me", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", w.Body.String())
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "s3cret", Issuer: "invoicedesk"}
	r := reviewerEngine(cfg)

	expired := signToken(t, cfg.Secret, middleware.ReviewerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "invoicedesk",
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	wrongIssuer := signToken(t, cfg.Secret, middleware.ReviewerClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", Subject: "42"},
	})
	wrongKey := signToken(t, "other", middleware.ReviewerClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "invoicedesk", Subject: "42"},
	})

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"expired":      "Bearer " + expired,
		"wrong issuer": "Bearer " + wrongIssuer,
		"wrong key":    "Bearer " + wrongKey,
	} {
		t.Run(name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/me", http.NoBody)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := serve(r, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestReviewerClaims_Reviewer(t *testing.T) {
	c := middleware.ReviewerClaims{Name: "Ana"}
	c.Subject = "42"
	assert.Equal(t, "Ana", c.Reviewer())

	c.Name = ""
	assert.Equal(t, "42", c.Reviewer())
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://review.example.com", "http://localhost:3000"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://review.example.com")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://review.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://review.example.com"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://evil.com")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS(nil))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/test", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(false))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	w := serve(r, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	req.Header.Set("X-Request-ID", "abc")
	w = serve(r, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}
