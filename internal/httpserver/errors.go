package httpserver

import "github.com/labstack/echo/v4"

// apiError builds the structured failure payload: a stable kind plus a
// human-readable message, nothing internal.
func apiError(status int, kind, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, echo.Map{
		"error":   kind,
		"message": message,
	})
}
