package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"approval-flow-api/internal/domain"
)

func identityRouter(jwtSecret string, requireUser bool) (*gin.Engine, *domain.Caller) {
	gin.SetMode(gin.TestMode)
	captured := &domain.Caller{}

	r := gin.New()
	r.Use(Identity(jwtSecret))
	if requireUser {
		r.Use(RequireUser())
	}
	r.GET("/probe", func(c *gin.Context) {
		*captured = CallerFrom(c)
		c.Status(http.StatusOK)
	})
	return r, captured
}

func TestIdentity_ReadsHeaders(t *testing.T) {
	r, caller := identityRouter("", false)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("x-user-id", "u1")
	req.Header.Set("x-user-name", "Alice")
	req.Header.Set("x-user-role", "applicant")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Caller{UserID: "u1", UserName: "Alice", Role: "applicant"}, *caller)
}

func TestIdentity_JWTSubjectOverridesHeader(t *testing.T) {
	secret := "test-secret"
	r, caller := identityRouter(secret, false)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "jwt-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("x-user-id", "header-user")
	req.Header.Set("x-user-role", "approver")
	req.Header.Set("Authorization", "Bearer "+signed)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "jwt-user", caller.UserID)
	assert.Equal(t, "approver", caller.Role)
}

func TestIdentity_InvalidJWTFallsBackToHeader(t *testing.T) {
	r, caller := identityRouter("test-secret", false)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("x-user-id", "header-user")
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "header-user", caller.UserID)
}

func TestRequireUser_RejectsAnonymous(t *testing.T) {
	r, _ := identityRouter("", true)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing x-user-id header")
}

func TestRequireUser_PassesIdentifiedCaller(t *testing.T) {
	r, _ := identityRouter("", true)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("x-user-id", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
