package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors the users table. Email is stored lower-case and is globally
// unique. RefreshToken and RefreshTokenExpiresAt are always written together:
// both set on issuance, both cleared on logout.
type User struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"       json:"id"`
	Email                 string     `gorm:"uniqueIndex;not null"       json:"email"`
	PersonName            string     `gorm:"not null"                   json:"personName"`
	PhoneNumber           string     `json:"phoneNumber"`
	PasswordHash          string     `gorm:"not null"                   json:"-"`
	RefreshToken          *string    `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// City is the managed resource. ID is assigned by the store and immutable;
// Name is the only field mutable from the outside.
type City struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null"             json:"name"`
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
