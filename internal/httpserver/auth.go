package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/citiesmanager/cities-api/internal/logging"
	"github.com/citiesmanager/cities-api/internal/middleware"
	"github.com/citiesmanager/cities-api/internal/repo"
	"github.com/citiesmanager/cities-api/internal/service"
	"github.com/citiesmanager/cities-api/internal/tokens"
	"github.com/citiesmanager/cities-api/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", err.Error())
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return apiError(http.StatusConflict, "conflict", "email already registered")
		}
		l.Error("register_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot register")
	}

	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", err.Error())
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			return apiError(http.StatusUnauthorized, "unauthorized", "invalid email or password")
		}
		l.Error("login_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot login")
	}

	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", err.Error())
	}

	res, err := h.Svc.Refresh(ctx, req.Token, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrTokenInvalid),
			errors.Is(err, service.ErrRefreshMismatch),
			errors.Is(err, service.ErrRefreshExpired):
			return apiError(http.StatusUnauthorized, "unauthorized", "invalid refresh request")
		}
		l.Error("refresh_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot refresh")
	}

	return c.JSON(http.StatusOK, res)
}

// EmailAvailable answers the anonymous availability probe used by sign-up
// forms. True means nobody holds the address yet.
func (h *AuthHTTP) EmailAvailable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.email_available")

	email := c.QueryParam("email")
	if email == "" {
		return apiError(http.StatusBadRequest, "validation_error", "email query parameter is required")
	}

	available, err := h.Svc.EmailAvailable(ctx, email)
	if err != nil {
		l.Error("email_available_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot check email")
	}

	return c.JSON(http.StatusOK, available)
}

// Logout clears the caller's stored refresh token when a valid bearer token
// accompanies the request. It answers 204 either way; there is nothing useful
// to reveal to an anonymous caller.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.logout")

	raw, err := middleware.ExtractBearer(c)
	if err == nil {
		claims, err := tokens.AccessClaimsFromToken(raw, h.Svc.JWTSecret, h.Svc.Issuer, h.Svc.Audience)
		if err == nil {
			if userID, parseErr := uuid.Parse(claims.Subject); parseErr == nil {
				if err := h.Svc.Logout(ctx, userID); err != nil {
					l.Error("logout_error", "status", 500, "error", err)
					return apiError(http.StatusInternalServerError, "internal_error", "cannot logout")
				}
			}
		}
	}

	return c.NoContent(http.StatusNoContent)
}
