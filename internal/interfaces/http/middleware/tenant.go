package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xear/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantCodeKey   = "tenant_code"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantValidator validates that a tenant exists and is active
type TenantValidator interface {
	ValidateTenant(tenantID string) (bool, error)
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// HeaderEnabled allows reading the tenant from the X-Tenant-ID header
	HeaderEnabled bool
	// JWTEnabled allows reading the tenant from a previously validated JWT
	JWTEnabled bool
	// SubdomainEnabled allows resolving the tenant from the request subdomain
	SubdomainEnabled bool
	// BaseDomain is required for subdomain resolution, e.g. "xear.com.tr"
	BaseDomain string
	// SkipPaths are paths that don't require tenant resolution
	SkipPaths []string
	// Required aborts with 400 when no tenant could be resolved
	Required bool
	// Validator optionally checks the resolved tenant against storage
	Validator TenantValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTenantConfig returns the default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled:    true,
		JWTEnabled:       true,
		SubdomainEnabled: false,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/tenants/register",
		},
		Required: true,
	}
}

// TenantMiddleware resolves the tenant for the request.
// Resolution priority: JWT claim > X-Tenant-ID header > subdomain.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig creates tenant middleware with custom config
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		var tenantID string

		if cfg.JWTEnabled {
			tenantID = GetJWTTenantID(c)
		}

		if tenantID == "" && cfg.HeaderEnabled {
			tenantID = c.GetHeader(TenantHeaderKey)
		}

		if tenantID == "" && cfg.SubdomainEnabled && cfg.BaseDomain != "" {
			tenantID = resolveTenantFromHost(c.Request.Host, cfg.BaseDomain)
		}

		if tenantID == "" {
			if cfg.Required {
				abortTenantError(c, http.StatusBadRequest, "TENANT_REQUIRED", "Tenant identification required")
				return
			}
			c.Next()
			return
		}

		if _, err := uuid.Parse(tenantID); err != nil {
			abortTenantError(c, http.StatusBadRequest, "INVALID_TENANT_ID", "Tenant ID must be a valid UUID")
			return
		}

		if cfg.Validator != nil {
			valid, err := cfg.Validator.ValidateTenant(tenantID)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("Tenant validation failed",
						zap.String("tenant_id", tenantID),
						zap.Error(err))
				}
				abortTenantError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate tenant")
				return
			}
			if !valid {
				abortTenantError(c, http.StatusForbidden, "TENANT_INVALID", "Tenant is unknown or suspended")
				return
			}
		}

		c.Set(TenantIDKey, tenantID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, log, tenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// resolveTenantFromHost extracts the subdomain from the host. The subdomain
// itself is not a tenant UUID, so this only works together with a Validator
// that maps codes to IDs; we return the raw subdomain here.
func resolveTenantFromHost(host, baseDomain string) string {
	h := host
	if idx := strings.Index(h, ":"); idx >= 0 {
		h = h[:idx]
	}
	suffix := "." + baseDomain
	if !strings.HasSuffix(h, suffix) {
		return ""
	}
	sub := strings.TrimSuffix(h, suffix)
	if sub == "" || strings.Contains(sub, ".") || sub == "www" {
		return ""
	}
	return sub
}

func abortTenantError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetTenantID retrieves the tenant ID string from gin.Context
func GetTenantID(c *gin.Context) string {
	if tenantID, exists := c.Get(TenantIDKey); exists {
		if id, ok := tenantID.(string); ok {
			return id
		}
	}
	return ""
}

// GetTenantUUID retrieves the tenant ID from gin.Context as a UUID
func GetTenantUUID(c *gin.Context) (uuid.UUID, bool) {
	id := GetTenantID(c)
	if id == "" {
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

// MustGetTenantUUID retrieves the tenant UUID or panics. Only for handlers
// behind TenantMiddleware with Required set.
func MustGetTenantUUID(c *gin.Context) uuid.UUID {
	id, ok := GetTenantUUID(c)
	if !ok {
		panic("tenant ID missing from request context")
	}
	return id
}
