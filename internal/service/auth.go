package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/citiesmanager/cities-api/internal/logging"
	"github.com/citiesmanager/cities-api/internal/models"
	"github.com/citiesmanager/cities-api/internal/repo"
	"github.com/citiesmanager/cities-api/internal/tokens"
	"github.com/citiesmanager/cities-api/internal/transport"
)

var (
	ErrRefreshMismatch = errors.New("refresh token does not match the stored one")
	ErrRefreshExpired  = errors.New("refresh token expired")
)

// AuthService drives the session lifecycle: register and login both end in an
// authenticated session, refresh rotates it, logout clears the server-side
// evidence. It keeps no state between calls.
type AuthService struct {
	Repo       *repo.GormRepo
	JWTSecret  []byte
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthenticationResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	user, err := s.Repo.CreateUser(ctx, req.Email, req.Password, req.PersonName, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_rejected", "reason", "email taken")
		} else {
			l.Error("register_failed", "error", err)
		}
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	return s.issueSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*transport.AuthenticationResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_rejected")
		} else {
			l.Error("login_failed", "error", err)
		}
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return s.issueSession(ctx, user)
}

// Refresh accepts the expired access token plus the opaque refresh token and,
// when both check out against the stored user, issues a brand-new pair. The
// previous refresh token is dead once the new one is written.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*transport.AuthenticationResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.ExpiredAccessClaims(accessToken, s.JWTSecret, s.Issuer, s.Audience)
	if err != nil {
		l.Warn("refresh_rejected", "reason", "bad access token")
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		l.Warn("refresh_rejected", "reason", "bad subject")
		return nil, tokens.ErrTokenInvalid
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_rejected", "reason", "unknown subject")
			return nil, ErrRefreshMismatch
		}
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		l.Warn("refresh_rejected", "reason", "token mismatch", "user_id", user.ID)
		return nil, ErrRefreshMismatch
	}
	if user.RefreshTokenExpiresAt == nil || user.RefreshTokenExpiresAt.Before(time.Now().UTC()) {
		l.Warn("refresh_rejected", "reason", "token expired", "user_id", user.ID)
		return nil, ErrRefreshExpired
	}

	l.Info("refresh_success", "user_id", user.ID)
	return s.issueSession(ctx, user)
}

// Logout clears the stored refresh token. Access tokens are short-lived and
// stateless, so no revocation list is kept.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")
	if err := s.Repo.ClearRefreshToken(ctx, userID); err != nil {
		l.Error("logout_failed", "error", err, "user_id", userID)
		return err
	}
	l.Info("logout_success", "user_id", userID)
	return nil
}

// EmailAvailable reports whether no account is registered under the email.
func (s *AuthService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*transport.AuthenticationResponse, error) {
	accessToken, accessExp, err := tokens.IssueAccessToken(user, s.JWTSecret, s.Issuer, s.Audience, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	refreshExp := time.Now().UTC().Add(s.RefreshTTL)

	if err := s.Repo.StoreRefreshToken(ctx, user.ID, refreshToken, refreshExp); err != nil {
		return nil, err
	}

	return &transport.AuthenticationResponse{
		PersonName:             user.PersonName,
		Email:                  user.Email,
		Token:                  accessToken,
		Expiration:             accessExp,
		RefreshToken:           refreshToken,
		RefreshTokenExpiration: refreshExp,
	}, nil
}
