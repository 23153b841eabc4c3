package middleware

import (
	"net/http"
	"strings"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"github.com/Oscarts/backery2-app-sub002/pkg/jwtutil"
	"github.com/Oscarts/backery2-app-sub002/pkg/logger"
	"github.com/Oscarts/backery2-app-sub002/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token from the Authorization header and
// binds the token's tenant into the request context. Every database
// operation issued from the handler runs against that binding; a request
// without a resolved tenant is refused here, never executed unscoped. The
// binding happens once per request and the context is immutable from the
// handler's point of view, so concurrent requests cannot overwrite each
// other's tenant.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordBoundaryRefusal("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordBoundaryRefusal("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			prometheus.RecordBoundaryRefusal("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// A token without a tenant cannot touch tenant data
		if claims.TenantID == nil {
			log.Warn("Token carries no tenant", zap.Uint("user_id", claims.UserID))
			prometheus.RecordBoundaryRefusal("no_tenant")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no tenant associated with this token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("tenant_id", *claims.TenantID)
		c.Set("user_role", claims.Role)

		// Bind the tenant for the rest of this request's work
		ctx := tenantscope.NewContext(c.Request().Context(), *claims.TenantID)
		c.SetRequest(c.Request().WithContext(ctx))

		log.Debug("Request authenticated with tenant context",
			zap.Uint("user_id", claims.UserID),
			zap.Uint("tenant_id", *claims.TenantID))

		return next(c)
	}
}
