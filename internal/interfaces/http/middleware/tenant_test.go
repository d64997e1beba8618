package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTenantValidator struct {
	valid bool
	err   error
}

func (v *stubTenantValidator) ValidateTenant(string) (bool, error) {
	return v.valid, v.err
}

func TestTenantMiddleware_FromHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tenantID := uuid.New()

	router := gin.New()
	router.Use(TenantMiddleware())
	router.GET("/patients", func(c *gin.Context) {
		assert.Equal(t, tenantID.String(), GetTenantID(c))
		got, ok := GetTenantUUID(c)
		require.True(t, ok)
		assert.Equal(t, tenantID, got)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_JWTClaimTakesPriority(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtTenant := uuid.New()
	headerTenant := uuid.New()

	router := gin.New()
	// simulate JWT middleware having run first
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, jwtTenant.String())
		c.Next()
	})
	router.Use(TenantMiddleware())
	router.GET("/patients", func(c *gin.Context) {
		assert.Equal(t, jwtTenant.String(), GetTenantID(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set(TenantHeaderKey, headerTenant.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_MissingRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddleware())
	router.GET("/patients", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_REQUIRED")
}

func TestTenantMiddleware_MissingNotRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := DefaultTenantConfig()
	cfg.Required = false

	router := gin.New()
	router.Use(TenantMiddlewareWithConfig(cfg))
	router.GET("/patients", func(c *gin.Context) {
		assert.Empty(t, GetTenantID(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_InvalidUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddleware())
	router.GET("/patients", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set(TenantHeaderKey, "kadikoy-clinic")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TENANT_ID")
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddleware())
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_Validator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tenantID := uuid.New().String()

	tests := []struct {
		name      string
		validator TenantValidator
		wantCode  int
	}{
		{"valid tenant", &stubTenantValidator{valid: true}, http.StatusOK},
		{"suspended tenant", &stubTenantValidator{valid: false}, http.StatusForbidden},
		{"validator error", &stubTenantValidator{err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTenantConfig()
			cfg.Validator = tt.validator

			router := gin.New()
			router.Use(TenantMiddlewareWithConfig(cfg))
			router.GET("/patients", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/patients", nil)
			req.Header.Set(TenantHeaderKey, tenantID)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestResolveTenantFromHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"kadikoy.xear.com.tr", "kadikoy"},
		{"kadikoy.xear.com.tr:8080", "kadikoy"},
		{"www.xear.com.tr", ""},
		{"xear.com.tr", ""},
		{"a.b.xear.com.tr", ""},
		{"other.example.com", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveTenantFromHost(tt.host, "xear.com.tr"), tt.host)
	}
}
