package transport

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	PersonName      string `json:"personName"`
	PhoneNumber     string `json:"phoneNumber"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(5, 100)),
		validation.Field(&r.ConfirmPassword, validation.Required, validation.By(equals(r.Password, "must match password"))),
		validation.Field(&r.PersonName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.PhoneNumber, validation.Required, is.Digit),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// AuthenticationResponse is returned by register, login and refresh alike.
type AuthenticationResponse struct {
	PersonName             string    `json:"personName"`
	Email                  string    `json:"email"`
	Token                  string    `json:"token"`
	Expiration             time.Time `json:"expiration"`
	RefreshToken           string    `json:"refreshToken"`
	RefreshTokenExpiration time.Time `json:"refreshTokenExpiration"`
}

type CreateCityRequest struct {
	Name string `json:"name"`
}

func (r CreateCityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// UpdateCityRequest is the full bindable surface of a city on PUT. Anything
// else the entity may gain later stays out of reach of the request body.
type UpdateCityRequest struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (r UpdateCityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

func equals(want, msg string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != want {
			return errors.New(msg)
		}
		return nil
	}
}
