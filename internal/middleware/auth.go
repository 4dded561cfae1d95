package middleware

import (
	"strings"

	"salonos-service/internal/apperror"
	"salonos-service/internal/model"
	"salonos-service/pkg/jwtutil"
	"salonos-service/pkg/logger"
	"salonos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Authenticate validates the bearer token from the Authorization header and
// stores the decoded identity on the request. Nothing downstream runs on failure.
func Authenticate(tokens *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return apperror.Authentication("access denied, no token provided")
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			tokenString = strings.TrimSpace(tokenString)
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return apperror.Authentication("invalid authorization format, expected Bearer token")
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return apperror.Authentication("invalid or expired token")
			}

			role, err := model.ParseRole(claims.Role)
			if err != nil {
				log.Warn("Token carries unknown role", zap.String("role", claims.Role))
				prometheus.RecordAuthError("invalid_token")
				return apperror.Authentication("invalid or expired token")
			}

			identity := &model.Identity{
				AccountID: claims.AccountID,
				TenantID:  claims.TenantID,
				Role:      role,
				Email:     claims.Email,
			}
			c.Set(identityKey, identity)
			log = log.With(
				zap.String("account_id", identity.AccountID.String()),
				zap.String("tenant_id", identity.TenantID.String()),
			)
			logger.Set(c, log)

			log.Debug("Request authenticated", zap.String("role", identity.Role.String()))

			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c echo.Context) (*model.Identity, bool) {
	identity, ok := c.Get(identityKey).(*model.Identity)
	return identity, ok && identity != nil
}
