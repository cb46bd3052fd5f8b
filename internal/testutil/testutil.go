// Package testutil provides the shared test database. Tests run against an
// in-memory sqlite instance with foreign keys enabled, migrated with the
// same models as the Postgres schema.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/whosturn/server/internal/models"
	"github.com/whosturn/server/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a fresh in-memory database for one test. Each test gets
// its own named shared-cache instance so parallel tests don't collide.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// CreateUser inserts a user with a handle derived from the name.
func CreateUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()

	handle := strings.ToLower(name)
	user := models.User{
		Email:            fmt.Sprintf("%s-%s@example.com", handle, uuid.NewString()[:8]),
		Username:         name,
		UniqueIdentifier: &handle,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return user
}

// CreatePair inserts two users and the relationship between them.
func CreatePair(t *testing.T, db *gorm.DB, name1, name2 string) (models.User, models.User, models.Relationship) {
	t.Helper()

	u1 := CreateUser(t, db, name1)
	u2 := CreateUser(t, db, name2)

	rel := models.Relationship{User1ID: u1.ID, User2ID: u2.ID}
	rel.Canonicalize()
	if err := db.Create(&rel).Error; err != nil {
		t.Fatalf("Failed to create relationship: %v", err)
	}
	return u1, u2, rel
}

// CreateTrack inserts a track on the relationship with holder taking the turn.
func CreateTrack(t *testing.T, db *gorm.DB, rel models.Relationship, name models.TrackName, holder models.User) models.Track {
	t.Helper()

	track := models.Track{
		RelationshipID:    rel.ID,
		Name:              name,
		CurrentTurnUserID: holder.ID,
	}
	if err := db.Create(&track).Error; err != nil {
		t.Fatalf("Failed to create track: %v", err)
	}
	return track
}

// Count returns the number of rows matching the query on model.
func Count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
