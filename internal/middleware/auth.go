package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sapvaishnav/chatbot-admin/pkg/jwtutil"
	"github.com/sapvaishnav/chatbot-admin/pkg/logger"
	"github.com/sapvaishnav/chatbot-admin/prometheus"
)

// Principal is the authenticated identity of a request: who logged in and
// which tenant every data access is scoped to. It is set once by the auth
// middleware and passed through the request context, never through globals.
type Principal struct {
	LoginID  uint
	Username string
	TenantID uint
	Role     string
}

const principalKey = "principal"

// PrincipalFrom returns the request principal set by AuthMiddleware.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

// AuthMiddleware validates the JWT token from the Authorization header and
// stores the session principal in the request context. Tokens without a
// tenant id are rejected; every downstream query needs one.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		if claims.TenantID == 0 {
			log.Error("Token has no tenant context", zap.String("username", claims.Username))
			prometheus.RecordAuthError("missing_tenant_context")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token carries no tenant context"})
		}

		c.Set(principalKey, Principal{
			LoginID:  claims.LoginID,
			Username: claims.Username,
			TenantID: claims.TenantID,
			Role:     claims.Role,
		})

		return next(c)
	}
}
