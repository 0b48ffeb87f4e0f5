package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/citiesmanager/cities-api/internal/models"
)

var (
	ErrTokenExpired = errors.New("access token expired")
	ErrTokenInvalid = errors.New("access token invalid")
)

// AccessClaims is the payload of a signed access token: enough identity to
// serve authenticated requests without a store lookup.
type AccessClaims struct {
	Email      string `json:"unique_name"`
	PersonName string `json:"name"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs an HS256 token for the user. Expiry is now+ttl; jti
// is a fresh uuid so two tokens for the same user never collide.
func IssueAccessToken(user *models.User, secret []byte, issuer, audience string, ttl time.Duration) (string, time.Time, error) {
	expiry := time.Now().UTC().Add(ttl)
	claims := AccessClaims{
		Email:      user.Email,
		PersonName: user.PersonName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiry, nil
}

// AccessClaimsFromToken verifies signature, expiry, issuer and audience.
// Failures come back as ErrTokenExpired or ErrTokenInvalid, never a panic.
func AccessClaimsFromToken(tokenStr string, secret []byte, issuer, audience string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

// ExpiredAccessClaims parses a token whose lifetime may already be over. The
// refresh flow hands in the expired-but-correctly-signed access token, so the
// expiry check is skipped here; signature, issuer and audience still must hold.
func ExpiredAccessClaims(tokenStr string, secret []byte, issuer, audience string) (*AccessClaims, error) {
	var claims AccessClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	tkn, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Issuer != issuer {
		return nil, ErrTokenInvalid
	}
	if !containsAudience(claims.Audience, audience) {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
