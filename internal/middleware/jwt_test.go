package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

func newProtectedEcho(tokens *auth.TokenService) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"identity": c.Get(IdentityKey),
		})
	}, JWTAuth(tokens))
	return e
}

func request(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour, auth.NewMemoryRevocations())
	e := newProtectedEcho(tokens)

	raw, err := tokens.Issue("user1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := request(e, "Bearer "+raw)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "user1") {
		t.Fatalf("identity missing from context: %s", rec.Body.String())
	}
}

func TestJWTAuthRejections(t *testing.T) {
	revocations := auth.NewMemoryRevocations()
	tokens := auth.NewTokenService("test-secret", time.Hour, revocations)
	e := newProtectedEcho(tokens)

	valid, err := tokens.Issue("user1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	foreign, err := auth.NewTokenService("other-secret", time.Hour, revocations).Issue("user1")
	if err != nil {
		t.Fatalf("issue foreign: %v", err)
	}

	revoked, err := tokens.Issue("user1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sess, err := tokens.Validate(context.Background(), revoked)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := tokens.Revoke(context.Background(), sess); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", "missing bearer token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "missing bearer token"},
		{"garbage token", "Bearer not-a-token", "invalid token"},
		{"foreign signature", "Bearer " + foreign, "invalid token"},
		{"revoked token", "Bearer " + revoked, "token revoked"},
	}
	for _, tc := range cases {
		rec := request(e, tc.header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", tc.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.message) {
			t.Errorf("%s: body %s, want message %q", tc.name, rec.Body.String(), tc.message)
		}
	}

	// Sanity: the valid token still passes after all the rejections above.
	if rec := request(e, "Bearer "+valid); rec.Code != http.StatusOK {
		t.Fatalf("valid token rejected: status %d", rec.Code)
	}
}
