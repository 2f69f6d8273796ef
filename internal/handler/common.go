// Package handler contains the HTTP handlers.  Handlers depend on narrow
// store interfaces instead of concrete repositories so tests can inject
// in-memory fakes and reset state between cases.
package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// dateLayout is the wire format for every calendar date in the API.
const dateLayout = "2006-01-02"

// repoTimeout bounds each store call issued by a handler.
const repoTimeout = 5 * time.Second

// parseDate parses a YYYY-MM-DD string.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// formatDate renders a date in the wire format.
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// formatDatePtr renders an optional date, nil staying nil.
func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// currentIdentity returns the authenticated username stored by the JWT
// middleware, or "" when the request is unauthenticated.
func currentIdentity(c echo.Context) string {
	if v, ok := c.Get(middleware.IdentityKey).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
