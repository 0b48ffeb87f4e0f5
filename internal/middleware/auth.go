package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/citiesmanager/cities-api/internal/tokens"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
	ContextName   = "user_name"
)

// BearerAuth rejects any request without a valid, unexpired access token in
// the Authorization header and puts the caller's identity on the echo context.
type BearerAuth struct {
	JWTSecret []byte
	Issuer    string
	Audience  string
}

func NewBearerAuth(secret []byte, issuer, audience string) *BearerAuth {
	return &BearerAuth{JWTSecret: secret, Issuer: issuer, Audience: audience}
}

func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := ExtractBearer(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
				"error":   "unauthorized",
				"message": "missing access token",
			})
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret, m.Issuer, m.Audience)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, tokens.ErrTokenExpired) {
				msg = "access token expired"
			}
			return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
				"error":   "unauthorized",
				"message": msg,
			})
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextName, claims.PersonName)
		return next(c)
	}
}

// ExtractBearer pulls the token out of "Authorization: Bearer <token>".
func ExtractBearer(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errors.New("authorization header missing")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errors.New("authorization header malformed")
	}
	return token, nil
}
