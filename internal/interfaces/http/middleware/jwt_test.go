package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learnhub/backoffice/internal/infrastructure/auth"
	"github.com/learnhub/backoffice/internal/infrastructure/config"
	"github.com/learnhub/backoffice/internal/infrastructure/logger"
	"github.com/learnhub/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "learnhub-test",
		AccessTokenExpiration: expiration,
	})
}

func newToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}

func jwtRouter(svc *auth.JWTService, guard ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(svc))
	router.Use(guard...)
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     GetJWTUserID(c).String(),
			"role":        c.GetString(JWTRoleKey),
			"ctx_user_id": logger.GetUserID(c.Request.Context()),
			"ctx_role":    logger.GetRole(c.Request.Context()),
		})
	})
	return router
}

func serve(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	userID := uuid.New()
	router := jwtRouter(svc)

	w := serve(router, BearerPrefix+newToken(t, svc, userID, auth.RoleStudent))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"user_id": "`+userID.String()+`",
		"role": "student",
		"ctx_user_id": "`+userID.String()+`",
		"ctx_role": "student"
	}`, w.Body.String())
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	expired := newTestJWTService(-time.Minute)
	otherIssuer := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "someone-else",
		AccessTokenExpiration: time.Minute,
	})
	router := jwtRouter(svc)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"not bearer", "Basic dXNlcjpwYXNz", dto.ErrCodeUnauthorized},
		{"empty token", BearerPrefix, dto.ErrCodeUnauthorized},
		{"garbage token", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"expired token", BearerPrefix + newToken(t, expired, uuid.New(), auth.RoleAdmin), dto.ErrCodeTokenExpired},
		{"wrong issuer", BearerPrefix + newToken(t, otherIssuer, uuid.New(), auth.RoleAdmin), dto.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		Validator: newTestJWTService(time.Minute),
		OnError: func(c *gin.Context, err error) {
			c.AbortWithStatusJSON(http.StatusTeapot, gin.H{"reason": err.Error()})
		},
	}))
	router.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, "")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, w.Body.String(), "missing bearer token")
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := jwtRouter(svc, RequireRole(auth.RoleAdmin))

	t.Run("admin passes", func(t *testing.T) {
		w := serve(router, BearerPrefix+newToken(t, svc, uuid.New(), auth.RoleAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("student is forbidden", func(t *testing.T) {
		w := serve(router, BearerPrefix+newToken(t, svc, uuid.New(), auth.RoleStudent))

		assert.Equal(t, http.StatusForbidden, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	})
}

func TestRequireRole_WithoutClaims(t *testing.T) {
	router := gin.New()
	router.Use(RequireRole(auth.RoleStudent))
	router.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetJWTUserID_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Equal(t, uuid.Nil, GetJWTUserID(c))
}
