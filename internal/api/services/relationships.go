package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/whosturn/server/internal/models"
	"gorm.io/gorm"
)

// ListRelationships returns every relationship the user belongs to, newest
// first, with both members and all tracks (including current turn holders)
// joined for display.
func ListRelationships(db *gorm.DB, userID uuid.UUID) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := db.
		Preload("User1").
		Preload("User2").
		Preload("Tracks").
		Preload("Tracks.CurrentTurnUser").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rels).Error
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	return rels, nil
}

// CreateRelationship pairs the requester with the target user. The pair is
// canonicalized (smaller id first) so the composite unique index catches
// duplicates in either direction; the pre-check inside the same transaction
// turns the common case into a clean Conflict instead of a constraint error.
func CreateRelationship(db *gorm.DB, requesterID, targetID uuid.UUID) (*models.Relationship, error) {
	if targetID == uuid.Nil {
		return nil, fmt.Errorf("%w: user2Id required", ErrValidation)
	}
	if targetID == requesterID {
		return nil, fmt.Errorf("%w: cannot pair with yourself", ErrValidation)
	}

	rel := models.Relationship{User1ID: requesterID, User2ID: targetID}
	rel.Canonicalize()

	err := db.Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.First(&target, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", ErrNotFound)
			}
			return err
		}

		var existing models.Relationship
		err := tx.
			Where("user1_id = ? AND user2_id = ?", rel.User1ID, rel.User2ID).
			First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: relationship", ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&rel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: relationship", ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("User1").Preload("User2").First(&rel, "id = ?", rel.ID).Error; err != nil {
		return nil, fmt.Errorf("reload relationship: %w", err)
	}
	return &rel, nil
}

// DeleteRelationship removes a relationship after checking membership.
// Tracks and history go with it through the declared cascade.
func DeleteRelationship(db *gorm.DB, requesterID, relationshipID uuid.UUID) error {
	var rel models.Relationship
	if err := db.First(&rel, "id = ?", relationshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: relationship", ErrNotFound)
		}
		return err
	}

	if !rel.HasMember(requesterID) {
		return ErrForbidden
	}

	if err := db.Delete(&rel).Error; err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}
	return nil
}
