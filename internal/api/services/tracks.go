package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/whosturn/server/internal/models"
	"gorm.io/gorm"
)

// CreateTrack adds a turn counter to a relationship the requester belongs to.
// The creator takes the first turn.
func CreateTrack(db *gorm.DB, requesterID, relationshipID uuid.UUID, name models.TrackName, customName *string) (*models.Track, error) {
	if relationshipID == uuid.Nil || name == "" {
		return nil, fmt.Errorf("%w: relationshipId and name required", ErrValidation)
	}
	if !models.ValidTrackName(name) {
		return nil, fmt.Errorf("%w: name must be coffee, lunch, beer, or custom", ErrValidation)
	}
	if name == models.TrackCustom && (customName == nil || *customName == "") {
		return nil, fmt.Errorf("%w: customName required for custom tracks", ErrValidation)
	}
	if name != models.TrackCustom {
		customName = nil
	}

	var rel models.Relationship
	if err := db.First(&rel, "id = ?", relationshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: relationship", ErrNotFound)
		}
		return nil, err
	}
	if !rel.HasMember(requesterID) {
		return nil, ErrForbidden
	}

	track := models.Track{
		RelationshipID:    relationshipID,
		Name:              name,
		CustomName:        customName,
		CurrentTurnUserID: requesterID,
	}
	if err := db.Create(&track).Error; err != nil {
		return nil, fmt.Errorf("create track: %w", err)
	}

	if err := db.Preload("CurrentTurnUser").First(&track, "id = ?", track.ID).Error; err != nil {
		return nil, fmt.Errorf("reload track: %w", err)
	}
	return &track, nil
}

// GetTrack loads a track with its relationship members, current turn holder,
// and full history (newest first) for a member of the owning relationship.
func GetTrack(db *gorm.DB, requesterID, trackID uuid.UUID) (*models.Track, error) {
	var track models.Track
	err := db.
		Preload("Relationship.User1").
		Preload("Relationship.User2").
		Preload("CurrentTurnUser").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC")
		}).
		Preload("History.FromUser").
		Preload("History.ToUser").
		First(&track, "id = ?", trackID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: track", ErrNotFound)
		}
		return nil, err
	}

	if !track.Relationship.HasMember(requesterID) {
		return nil, ErrForbidden
	}
	return &track, nil
}

// DeleteTrack removes a track after checking the requester's membership in
// the owning relationship. History entries cascade.
func DeleteTrack(db *gorm.DB, requesterID, trackID uuid.UUID) error {
	var track models.Track
	err := db.Preload("Relationship").First(&track, "id = ?", trackID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: track", ErrNotFound)
		}
		return err
	}

	if !track.Relationship.HasMember(requesterID) {
		return ErrForbidden
	}

	if err := db.Delete(&track).Error; err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	return nil
}
