package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	IdentityKey = "identity"
	SessionKey  = "session"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// against the token service (signature, expiry and revocation set) before
// any handler or store access runs.  On success the token's identity and
// the full *auth.Session are stored in the request context.
func JWTAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			sess, err := tokens.Validate(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": authFailureMessage(err)})
			}
			c.Set(IdentityKey, sess.Identity)
			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return "token revoked"
	default:
		return "invalid token"
	}
}
