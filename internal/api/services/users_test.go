package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/whosturn/server/internal/api/services"
	"github.com/whosturn/server/internal/models"
	"github.com/whosturn/server/internal/testutil"
)

func TestUpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, db, "Alice")
	bob := testutil.CreateUser(t, db, "Bob")

	// Nickname only.
	user, err := services.UpdateProfile(db, alice.ID, services.ProfileUpdate{Nickname: strptr("Al")})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Nickname == nil || *user.Nickname != "Al" {
		t.Error("Expected nickname updated")
	}

	// Claiming another user's handle conflicts.
	_, err = services.UpdateProfile(db, alice.ID, services.ProfileUpdate{UniqueIdentifier: bob.UniqueIdentifier})
	if !errors.Is(err, services.ErrConflict) {
		t.Errorf("Expected ErrConflict on taken handle, got %v", err)
	}

	// Re-claiming your own handle is fine.
	_, err = services.UpdateProfile(db, alice.ID, services.ProfileUpdate{UniqueIdentifier: alice.UniqueIdentifier})
	if err != nil {
		t.Errorf("Expected own handle to be re-claimable, got %v", err)
	}

	// New free handle works.
	user, err = services.UpdateProfile(db, alice.ID, services.ProfileUpdate{UniqueIdentifier: strptr("alice_the_great")})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.UniqueIdentifier == nil || *user.UniqueIdentifier != "alice_the_great" {
		t.Error("Expected handle updated")
	}
}

func TestSearchByIdentifier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, db, "Alice")
	bob := testutil.CreateUser(t, db, "Bob")

	found, err := services.SearchByIdentifier(db, alice.ID, *bob.UniqueIdentifier)
	if err != nil {
		t.Fatalf("SearchByIdentifier failed: %v", err)
	}
	if found.ID != bob.ID {
		t.Errorf("Expected to find %s, got %s", bob.ID, found.ID)
	}

	if _, err := services.SearchByIdentifier(db, alice.ID, *alice.UniqueIdentifier); !errors.Is(err, services.ErrValidation) {
		t.Errorf("Expected ErrValidation when searching for yourself, got %v", err)
	}
	if _, err := services.SearchByIdentifier(db, alice.ID, "nobody_here"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown handle, got %v", err)
	}
	if _, err := services.SearchByIdentifier(db, alice.ID, ""); !errors.Is(err, services.ErrValidation) {
		t.Errorf("Expected ErrValidation for empty identifier, got %v", err)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, bob, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackCoffee, alice)

	if _, err := services.ToggleTurn(db, alice.ID, track.ID); err != nil {
		t.Fatalf("ToggleTurn failed: %v", err)
	}

	if err := services.DeleteAccount(context.Background(), db, alice.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if n := testutil.Count(t, db, &models.User{}, "id = ?", alice.ID); n != 0 {
		t.Error("User still present after account deletion")
	}
	if n := testutil.Count(t, db, &models.Relationship{}, "id = ?", rel.ID); n != 0 {
		t.Error("Relationship not cascaded on user deletion")
	}
	if n := testutil.Count(t, db, &models.Track{}, "id = ?", track.ID); n != 0 {
		t.Error("Track not cascaded on user deletion")
	}
	if n := testutil.Count(t, db, &models.History{}, "track_id = ?", track.ID); n != 0 {
		t.Error("History not cascaded on user deletion")
	}
	if n := testutil.Count(t, db, &models.User{}, "id = ?", bob.ID); n != 1 {
		t.Error("The other member must survive the cascade")
	}
}
