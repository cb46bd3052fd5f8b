package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null"`
	Username string    `json:"name" gorm:"not null"`
	// Public handle other users search for. Unset until the user picks one.
	UniqueIdentifier *string   `json:"uniqueIdentifier" gorm:"uniqueIndex"`
	Nickname         *string   `json:"nickname"`
	Image            *string   `json:"image"`
	Password         string    `json:"-"` // empty for Google-authenticated accounts
	CreatedAt        time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// IDs are generated client-side so the same models migrate on Postgres
// and on the sqlite test backend.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName prefers the nickname over the registered name.
func (u *User) DisplayName() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	return u.Username
}

// PublicUser is the minimal display shape exposed to other relationship members.
type PublicUser struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Nickname         *string   `json:"nickname"`
	UniqueIdentifier *string   `json:"uniqueIdentifier,omitempty"`
	Image            *string   `json:"image"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Name:             u.Username,
		Nickname:         u.Nickname,
		UniqueIdentifier: u.UniqueIdentifier,
		Image:            u.Image,
	}
}
