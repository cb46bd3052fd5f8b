package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Relationship pairs exactly two distinct users. The pair is logically
// unordered; to get a real unique index we canonicalize ordering so the
// lexicographically smaller user id is always User1ID.
type Relationship struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	User1ID   uuid.UUID `json:"user1Id" gorm:"type:uuid;not null;uniqueIndex:idx_relationships_pair"`
	User2ID   uuid.UUID `json:"user2Id" gorm:"type:uuid;not null;uniqueIndex:idx_relationships_pair"`
	User1     User      `json:"user1" gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE"`
	User2     User      `json:"user2" gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE"`
	Tracks    []Track   `json:"tracks,omitempty" gorm:"foreignKey:RelationshipID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (rel *Relationship) BeforeCreate(tx *gorm.DB) error {
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	return nil
}

// Canonicalize swaps the pair so User1ID sorts before User2ID.
// Must be called before persisting; the composite unique index relies on it.
func (rel *Relationship) Canonicalize() {
	if rel.User1ID.String() > rel.User2ID.String() {
		rel.User1ID, rel.User2ID = rel.User2ID, rel.User1ID
	}
}

// HasMember reports whether userID is one of the two members.
func (rel *Relationship) HasMember(userID uuid.UUID) bool {
	return rel.User1ID == userID || rel.User2ID == userID
}

// OtherMember returns the member that is not userID.
// Callers must check HasMember first.
func (rel *Relationship) OtherMember(userID uuid.UUID) uuid.UUID {
	if rel.User1ID == userID {
		return rel.User2ID
	}
	return rel.User1ID
}
