package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func createValidJWT(subject, email, role string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, _ := token.SignedString([]byte(testSecret))
	return tokenString
}

func runMiddleware(t *testing.T, config JWTConfig, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/payments", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := JWTMiddleware(config)(func(c echo.Context) error {
		reached = true
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	assert.NoError(t, handler(c))
	return rec, reached
}

func TestJWTMiddleware(t *testing.T) {
	logger := zap.NewNop()
	adminConfig := JWTConfig{
		Secret:       testSecret,
		Logger:       logger,
		RequiredRole: RoleAdmin,
	}

	t.Run("valid admin token passes", func(t *testing.T) {
		token := createValidJWT("user-1", "admin@example.org", "admin")

		rec, reached := runMiddleware(t, adminConfig, "Bearer "+token)

		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		rec, reached := runMiddleware(t, adminConfig, "")

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		rec, reached := runMiddleware(t, adminConfig, "Basic abc123")

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		tokenString, _ := token.SignedString([]byte("wrong-secret"))

		rec, reached := runMiddleware(t, adminConfig, "Bearer "+tokenString)

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
	})

	t.Run("expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		tokenString, _ := token.SignedString([]byte(testSecret))

		rec, reached := runMiddleware(t, adminConfig, "Bearer "+tokenString)

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated but not admin", func(t *testing.T) {
		token := createValidJWT("user-2", "member@example.org", "member")

		rec, reached := runMiddleware(t, adminConfig, "Bearer "+token)

		assert.False(t, reached)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	})

	t.Run("no required role accepts any valid token", func(t *testing.T) {
		config := JWTConfig{Secret: testSecret, Logger: logger}
		token := createValidJWT("user-2", "member@example.org", "member")

		rec, reached := runMiddleware(t, config, "Bearer "+token)

		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
