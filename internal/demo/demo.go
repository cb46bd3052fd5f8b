// Package demo seeds and tears down the fixed dataset backing trial
// sessions. Demo rows are recognizable only by their reserved email
// addresses; nothing else marks them.
package demo

import (
	"errors"
	"fmt"
	"time"

	"github.com/whosturn/server/internal/models"
	"gorm.io/gorm"
)

const (
	UserEmail   = "demo@whosturn.app"
	FriendEmail = "demo_friend@whosturn.app"
)

var reservedEmails = []string{UserEmail, FriendEmail}

func strptr(s string) *string { return &s }

// GetUser returns the primary demo identity. Seed must have run first.
func GetUser(db *gorm.DB) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", UserEmail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("demo user not found, run Seed first")
		}
		return nil, err
	}
	return &user, nil
}

// Seed creates the demo dataset: two users, one relationship, four tracks
// with hand-picked turn holders, and a few backdated toggles so the history
// view has something to show. Idempotent: the existence of the primary demo
// user means the whole dataset is assumed present and nothing is touched.
func Seed(db *gorm.DB) error {
	var existing models.User
	err := db.First(&existing, "email = ?", UserEmail).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		demoUser := models.User{
			Email:            UserEmail,
			Username:         "Demo User",
			Nickname:         strptr("Demo"),
			UniqueIdentifier: strptr("demo_user"),
		}
		if err := tx.Create(&demoUser).Error; err != nil {
			return err
		}

		friend := models.User{
			Email:            FriendEmail,
			Username:         "Alex",
			Nickname:         strptr("Alex"),
			UniqueIdentifier: strptr("demo_friend"),
		}
		if err := tx.Create(&friend).Error; err != nil {
			return err
		}

		rel := models.Relationship{User1ID: demoUser.ID, User2ID: friend.ID}
		rel.Canonicalize()
		if err := tx.Create(&rel).Error; err != nil {
			return err
		}

		tracks := []models.Track{
			{RelationshipID: rel.ID, Name: models.TrackCoffee, CurrentTurnUserID: friend.ID},
			{RelationshipID: rel.ID, Name: models.TrackLunch, CurrentTurnUserID: demoUser.ID},
			{RelationshipID: rel.ID, Name: models.TrackBeer, CurrentTurnUserID: friend.ID},
			{RelationshipID: rel.ID, Name: models.TrackCustom, CustomName: strptr("Movie Night"), CurrentTurnUserID: demoUser.ID},
		}
		for i := range tracks {
			if err := tx.Create(&tracks[i]).Error; err != nil {
				return err
			}
		}
		coffee, lunch, beer := tracks[0], tracks[1], tracks[2]

		now := time.Now()
		day := 24 * time.Hour
		entries := []models.History{
			{TrackID: coffee.ID, FromUserID: demoUser.ID, ToUserID: friend.ID, Timestamp: now.Add(-3 * day)},
			{TrackID: coffee.ID, FromUserID: friend.ID, ToUserID: demoUser.ID, Timestamp: now.Add(-2 * day)},
			{TrackID: coffee.ID, FromUserID: demoUser.ID, ToUserID: friend.ID, Timestamp: now.Add(-1 * day)},
			{TrackID: lunch.ID, FromUserID: friend.ID, ToUserID: demoUser.ID, Timestamp: now.Add(-2 * day)},
			{TrackID: beer.ID, FromUserID: demoUser.ID, ToUserID: friend.ID, Timestamp: now.Add(-1 * day)},
		}
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Cleanup deletes everything reachable from the reserved emails in
// dependency order: history, then tracks, then relationships, then users.
// Calling it when no demo data exists is a no-op.
func Cleanup(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&models.User{}).
			Where("email IN ?", reservedEmails).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		var relIDs []string
		err = tx.Model(&models.Relationship{}).
			Where("user1_id IN ? OR user2_id IN ?", ids, ids).
			Pluck("id", &relIDs).Error
		if err != nil {
			return err
		}

		if len(relIDs) > 0 {
			var trackIDs []string
			err = tx.Model(&models.Track{}).
				Where("relationship_id IN ?", relIDs).
				Pluck("id", &trackIDs).Error
			if err != nil {
				return err
			}

			if len(trackIDs) > 0 {
				if err := tx.Delete(&models.History{}, "track_id IN ?", trackIDs).Error; err != nil {
					return err
				}
				if err := tx.Delete(&models.Track{}, "id IN ?", trackIDs).Error; err != nil {
					return err
				}
			}
			if err := tx.Delete(&models.Relationship{}, "id IN ?", relIDs).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, "id IN ?", ids).Error
	})
}
