package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// AuthHandler bundles dependencies for the login/logout endpoints.
type AuthHandler struct {
	Creds  *auth.Credentials
	Tokens *auth.TokenService
}

func NewAuthHandler(creds *auth.Credentials, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{Creds: creds, Tokens: tokens}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies the credentials and returns a fresh access token.  Unknown
// usernames and wrong passwords produce the same 401 response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if !h.Creds.Verify(req.Username, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}
	token, err := h.Tokens.Issue(req.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": token})
}

// Logout revokes the access token that authenticated this request.  The
// token's jti goes into the revocation set, so every later request carrying
// the same token is rejected even before its expiry.  Runs behind JWTAuth.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, ok := c.Get(middleware.SessionKey).(*auth.Session)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, sess); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "access token revoked"})
}
