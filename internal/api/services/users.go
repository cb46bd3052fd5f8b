package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/whosturn/server/internal/models"
	"github.com/whosturn/server/internal/repositories"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// GetProfile loads the requester's own user record.
func GetProfile(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the two mutable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Nickname         *string
	UniqueIdentifier *string
}

// UpdateProfile sets nickname and/or the public handle. A handle already
// owned by a different user is a Conflict; re-claiming your own is fine.
func UpdateProfile(db *gorm.DB, userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	var user models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", ErrNotFound)
			}
			return err
		}

		if update.UniqueIdentifier != nil && *update.UniqueIdentifier != "" {
			var existing models.User
			err := tx.First(&existing, "unique_identifier = ?", *update.UniqueIdentifier).Error
			switch {
			case err == nil:
				if existing.ID != userID {
					return fmt.Errorf("%w: unique identifier already taken", ErrConflict)
				}
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
			user.UniqueIdentifier = update.UniqueIdentifier
		}
		if update.Nickname != nil && *update.Nickname != "" {
			user.Nickname = update.Nickname
		}

		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetAvatar records the public URL of the user's uploaded avatar object.
func SetAvatar(db *gorm.DB, userID uuid.UUID, publicURL string) error {
	res := db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("image", publicURL)
	if res.Error != nil {
		return fmt.Errorf("set avatar: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	return nil
}

// SearchByIdentifier finds a user by public handle for the discover flow.
// The requester is never returned as a match.
func SearchByIdentifier(db *gorm.DB, requesterID uuid.UUID, identifier string) (*models.User, error) {
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier parameter required", ErrValidation)
	}

	var user models.User
	if err := db.First(&user, "unique_identifier = ?", identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}

	if user.ID == requesterID {
		return nil, fmt.Errorf("%w: cannot search for yourself", ErrValidation)
	}
	return &user, nil
}

// DeleteAccount removes the user row, which cascades through relationships,
// tracks, and history, and deletes the stored avatar object. The database
// delete and the object delete touch different systems, so they run
// concurrently.
func DeleteAccount(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res := db.WithContext(ctx).Delete(&models.User{}, "id = ?", userID)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		return nil
	})
	g.Go(func() error {
		return repositories.DeleteAvatar(ctx, userID)
	})

	return g.Wait()
}
