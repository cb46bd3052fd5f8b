package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/whosturn/server/internal/models"
	"gorm.io/gorm"
)

// ToggleResult is the outcome of one turn flip: the updated track with its
// display joins and the ledger entry that recorded the transition.
type ToggleResult struct {
	Track        models.Track   `json:"track"`
	HistoryEntry models.History `json:"historyEntry"`
}

// ToggleTurn flips a track's turn holder to the relationship member who is
// not the requester and appends a history entry, in one transaction. The new
// holder is computed from the requester, not from the current holder: a
// requester toggling while it is already the other member's turn still
// produces a valid ledger entry (from == to == the other member).
//
// The update is guarded on the holder value read inside the transaction and
// retried on a miss, so two interleaved toggles serialize without a lost
// update and each ledger entry links the holder it actually displaced.
func ToggleTurn(db *gorm.DB, requesterID, trackID uuid.UUID) (*ToggleResult, error) {
	var result ToggleResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var track models.Track
		if err := tx.Preload("Relationship").First(&track, "id = ?", trackID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: track", ErrNotFound)
			}
			return err
		}

		if !track.Relationship.HasMember(requesterID) {
			return ErrForbidden
		}

		otherUserID := track.Relationship.OtherMember(requesterID)

		const maxAttempts = 3
		for attempt := 0; ; attempt++ {
			fromUserID := track.CurrentTurnUserID

			res := tx.Model(&models.Track{}).
				Where("id = ? AND current_turn_user_id = ?", track.ID, fromUserID).
				Update("current_turn_user_id", otherUserID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				result.HistoryEntry = models.History{
					TrackID:    track.ID,
					FromUserID: fromUserID,
					ToUserID:   otherUserID,
					Timestamp:  time.Now(),
				}
				break
			}

			// Another toggle got in between our read and the guarded
			// update; re-read the holder and try again.
			if attempt == maxAttempts-1 {
				return fmt.Errorf("toggle turn: track %s kept changing", track.ID)
			}
			if err := tx.First(&track, "id = ?", track.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&result.HistoryEntry).Error; err != nil {
			return err
		}

		var updated models.Track
		err := tx.
			Preload("Relationship.User1").
			Preload("Relationship.User2").
			Preload("CurrentTurnUser").
			First(&updated, "id = ?", track.ID).Error
		if err != nil {
			return err
		}
		result.Track = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
