package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"basetrack/internal/model"
	"basetrack/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(GetJWTSecret())
	require.NoError(t, err)
	return signed
}

func authRouter() (*gin.Engine, *policy.Actor) {
	gin.SetMode(gin.TestMode)
	captured := &policy.Actor{}
	router := gin.New()
	router.GET("/protected", Authenticate(), func(c *gin.Context) {
		actor, _ := ActorFromContext(c)
		*captured = actor
		c.Status(http.StatusOK)
	})
	return router, captured
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	router, captured := authRouter()

	token := signToken(t, jwt.MapClaims{
		"sub":      "user-1",
		"username": "jsmith",
		"role":     model.RoleBaseCommander,
		"base_id":  "base-1",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", captured.ID)
	assert.Equal(t, model.RoleBaseCommander, captured.Role)
	assert.Equal(t, "base-1", captured.BaseID)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	router, _ := authRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	router, _ := authRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	router, _ := authRouter()

	token := signToken(t, jwt.MapClaims{
		"sub":  "user-1",
		"role": model.RoleAdmin,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsMissingClaims(t *testing.T) {
	router, _ := authRouter()

	token := signToken(t, jwt.MapClaims{
		"username": "jsmith",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsWrongSigningMethod(t *testing.T) {
	router, _ := authRouter()

	// alg=none style tokens must never pass.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "user-1",
		"role": model.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
