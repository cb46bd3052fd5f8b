package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackName is the fixed set of track categories.
type TrackName string

const (
	TrackCoffee TrackName = "coffee"
	TrackLunch  TrackName = "lunch"
	TrackBeer   TrackName = "beer"
	TrackCustom TrackName = "custom"
)

// ValidTrackName reports whether name is one of the allowed categories.
func ValidTrackName(name TrackName) bool {
	switch name {
	case TrackCoffee, TrackLunch, TrackBeer, TrackCustom:
		return true
	}
	return false
}

// Track is a named turn counter owned by exactly one relationship.
// CurrentTurnUserID is always one of the two relationship members.
type Track struct {
	ID                uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	RelationshipID    uuid.UUID    `json:"relationshipId" gorm:"type:uuid;not null;index"`
	Relationship      Relationship `json:"relationship,omitzero" gorm:"foreignKey:RelationshipID;constraint:OnDelete:CASCADE"`
	Name              TrackName    `json:"name" gorm:"type:varchar(20);not null"`
	CustomName        *string      `json:"customName"` // set iff Name == custom
	CurrentTurnUserID uuid.UUID    `json:"currentTurnUserId" gorm:"type:uuid;not null"`
	CurrentTurnUser   User         `json:"currentTurnUser,omitzero" gorm:"foreignKey:CurrentTurnUserID;constraint:OnDelete:CASCADE"`
	History           []History    `json:"history,omitempty" gorm:"foreignKey:TrackID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time    `json:"createdAt" gorm:"autoCreateTime"`
}

func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Label is the human-readable name: the custom name for custom tracks,
// the category otherwise.
func (t *Track) Label() string {
	if t.Name == TrackCustom && t.CustomName != nil {
		return *t.CustomName
	}
	return string(t.Name)
}
