package middleware

import (
	"salonos-service/internal/apperror"
	"salonos-service/internal/model"
	"salonos-service/pkg/logger"
	"salonos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireRoles admits only identities whose role is in roles.
// It must be chained after Authenticate.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	denied := "access denied, required role: " + model.JoinRoles(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				prometheus.RecordAuthError("missing_identity")
				return apperror.Authentication("authentication required")
			}

			if !allowed[identity.Role] {
				logger.FromContext(c).Warn("Role not permitted",
					zap.String("role", identity.Role.String()),
					zap.String("required", model.JoinRoles(roles)))
				prometheus.RecordAuthError("forbidden_role")
				return apperror.Authorization(denied)
			}

			return next(c)
		}
	}
}
