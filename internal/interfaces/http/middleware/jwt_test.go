package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/infrastructure/auth"
	"github.com/xear/backend/internal/infrastructure/config"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-middleware",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "xear-test",
		MaxRefreshCount:        10,
	})
}

func issueTestToken(t *testing.T, svc *auth.JWTService, tenantID, userID uuid.UUID) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: "ayse.demir",
		Role:     "clinician",
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testJWTService()
	tenantID := uuid.New()
	userID := uuid.New()
	token := issueTestToken(t, svc, tenantID, userID)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/protected", func(c *gin.Context) {
		assert.Equal(t, userID.String(), GetJWTUserID(c))
		assert.Equal(t, tenantID.String(), GetJWTTenantID(c))
		assert.Equal(t, "ayse.demir", GetJWTUsername(c))
		assert.Equal(t, "clinician", GetJWTRole(c))
		require.NotNil(t, GetJWTClaims(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddleware(testJWTService()))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddleware(testJWTService()))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Token abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddleware(testJWTService()))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+"not.a.jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	expiredSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-middleware",
		AccessTokenExpiration:  -1 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "xear-test",
	})
	token := issueTestToken(t, expiredSvc, uuid.New(), uuid.New())

	router := gin.New()
	router.Use(JWTAuthMiddleware(expiredSvc))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := DefaultJWTConfig(testJWTService())
	cfg.SkipPaths = []string{"/api/v1/auth/login"}

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_BlacklistedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()

	token := issueTestToken(t, svc, uuid.New(), uuid.New())
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuthMiddleware_OnErrorCallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	called := false
	cfg := DefaultJWTConfig(testJWTService())
	cfg.OnError = func(c *gin.Context, err error) {
		called = true
		c.AbortWithStatus(http.StatusTeapot)
	}

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := testJWTService()
	token := issueTestToken(t, svc, uuid.New(), uuid.New()) // role: clinician

	tests := []struct {
		name     string
		allowed  []string
		wantCode int
	}{
		{"role allowed", []string{"admin", "clinician"}, http.StatusOK},
		{"role forbidden", []string{"admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuthMiddleware(svc))
			router.GET("/admin", RequireRole(tt.allowed...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
