package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// History is one append-only record of a turn transition. Rows are never
// updated; they disappear only when their track cascades away.
type History struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TrackID    uuid.UUID `json:"trackId" gorm:"type:uuid;not null;index"`
	FromUserID uuid.UUID `json:"fromUserId" gorm:"type:uuid;not null"`
	ToUserID   uuid.UUID `json:"toUserId" gorm:"type:uuid;not null"`
	FromUser   User      `json:"fromUser,omitzero" gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE"`
	ToUser     User      `json:"toUser,omitzero" gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`
}

func (h *History) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now()
	}
	return nil
}
