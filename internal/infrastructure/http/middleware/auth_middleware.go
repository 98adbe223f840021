package middleware

import (
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/pkg/jwt"
)

const (
	// UserIDKey holds the authenticated user's uuid.UUID
	UserIDKey = "user_id"
	// OrganisationIDKey holds the organisation the request acts for
	OrganisationIDKey = "organisation_id"
)

// TokenValidator parses bearer tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates the bearer JWT and sets
// "user_id" and "organisation_id" (uuid.UUID) into the Echo context
func EchoAuth(validator TokenValidator, logger *zap.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return reject(c, errors.ErrUnauthenticated())
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.Debug("rejected bearer token",
					zap.String("path", c.Path()),
					zap.Error(err),
				)
				if stdErrors.Is(err, jwt.ErrTokenExpired) {
					return reject(c, errors.ErrTokenExpired())
				}
				return reject(c, errors.ErrInvalidToken())
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(OrganisationIDKey, claims.OrganisationID)

			return next(c)
		}
	}
}

// GetOrganisationID returns the organisation set by EchoAuth
func GetOrganisationID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(OrganisationIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

func reject(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}
