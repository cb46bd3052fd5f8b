package services_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/whosturn/server/internal/api/services"
	"github.com/whosturn/server/internal/models"
	"github.com/whosturn/server/internal/testutil"
)

func TestToggleTurnAlternates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, bob, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackCoffee, alice)

	// Alice toggles: turn passes to Bob.
	result, err := services.ToggleTurn(db, alice.ID, track.ID)
	if err != nil {
		t.Fatalf("ToggleTurn failed: %v", err)
	}
	if result.Track.CurrentTurnUserID != bob.ID {
		t.Errorf("Expected turn holder %s, got %s", bob.ID, result.Track.CurrentTurnUserID)
	}
	if result.HistoryEntry.FromUserID != alice.ID || result.HistoryEntry.ToUserID != bob.ID {
		t.Errorf("Expected history {from: %s, to: %s}, got {from: %s, to: %s}",
			alice.ID, bob.ID, result.HistoryEntry.FromUserID, result.HistoryEntry.ToUserID)
	}
	if n := testutil.Count(t, db, &models.History{}, "track_id = ?", track.ID); n != 1 {
		t.Errorf("Expected 1 history entry, got %d", n)
	}

	// Bob toggles back: turn returns to Alice.
	result, err = services.ToggleTurn(db, bob.ID, track.ID)
	if err != nil {
		t.Fatalf("ToggleTurn failed: %v", err)
	}
	if result.Track.CurrentTurnUserID != alice.ID {
		t.Errorf("Expected turn holder %s, got %s", alice.ID, result.Track.CurrentTurnUserID)
	}
	if result.HistoryEntry.FromUserID != bob.ID || result.HistoryEntry.ToUserID != alice.ID {
		t.Errorf("Expected history {from: %s, to: %s}, got {from: %s, to: %s}",
			bob.ID, alice.ID, result.HistoryEntry.FromUserID, result.HistoryEntry.ToUserID)
	}
	if n := testutil.Count(t, db, &models.History{}, "track_id = ?", track.ID); n != 2 {
		t.Errorf("Expected 2 history entries, got %d", n)
	}
}

// The new holder is computed from the requester, not the current holder: a
// requester toggling while it is already the other member's turn records a
// transition whose from and to are the same user.
func TestToggleTurnOnOthersTurn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, bob, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackLunch, bob)

	result, err := services.ToggleTurn(db, alice.ID, track.ID)
	if err != nil {
		t.Fatalf("ToggleTurn failed: %v", err)
	}
	if result.Track.CurrentTurnUserID != bob.ID {
		t.Errorf("Expected turn to stay with %s, got %s", bob.ID, result.Track.CurrentTurnUserID)
	}
	if result.HistoryEntry.FromUserID != bob.ID || result.HistoryEntry.ToUserID != bob.ID {
		t.Errorf("Expected history {from: %s, to: %s}, got {from: %s, to: %s}",
			bob.ID, bob.ID, result.HistoryEntry.FromUserID, result.HistoryEntry.ToUserID)
	}
}

func TestToggleTurnHistoryMatchesTrack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, _, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackBeer, alice)

	for i := 0; i < 4; i++ {
		requester := alice.ID
		if i%2 == 1 {
			requester = rel.OtherMember(alice.ID)
		}
		result, err := services.ToggleTurn(db, requester, track.ID)
		if err != nil {
			t.Fatalf("ToggleTurn %d failed: %v", i, err)
		}
		if result.HistoryEntry.ToUserID != result.Track.CurrentTurnUserID {
			t.Errorf("Toggle %d: history toUserId %s does not match new holder %s",
				i, result.HistoryEntry.ToUserID, result.Track.CurrentTurnUserID)
		}
	}
	if n := testutil.Count(t, db, &models.History{}, "track_id = ?", track.ID); n != 4 {
		t.Errorf("Expected 4 history entries, got %d", n)
	}
}

func TestToggleTurnNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, db, "Alice")

	_, err := services.ToggleTurn(db, alice.ID, uuid.New())
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestToggleTurnForbiddenLeavesStateUnchanged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, _, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackCoffee, alice)
	carol := testutil.CreateUser(t, db, "Carol")

	_, err := services.ToggleTurn(db, carol.ID, track.ID)
	if !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}

	var reloaded models.Track
	if err := db.First(&reloaded, "id = ?", track.ID).Error; err != nil {
		t.Fatalf("Failed to reload track: %v", err)
	}
	if reloaded.CurrentTurnUserID != alice.ID {
		t.Errorf("Turn holder changed to %s after forbidden toggle", reloaded.CurrentTurnUserID)
	}
	if n := testutil.Count(t, db, &models.History{}, "track_id = ?", track.ID); n != 0 {
		t.Errorf("Forbidden toggle appended %d history entries", n)
	}
}

func TestToggleTurnJoinsDisplayFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, bob, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackCoffee, alice)

	result, err := services.ToggleTurn(db, alice.ID, track.ID)
	if err != nil {
		t.Fatalf("ToggleTurn failed: %v", err)
	}
	if result.Track.CurrentTurnUser.ID != bob.ID {
		t.Errorf("Expected current turn user preloaded as %s, got %s", bob.ID, result.Track.CurrentTurnUser.ID)
	}
	members := map[uuid.UUID]bool{
		result.Track.Relationship.User1.ID: true,
		result.Track.Relationship.User2.ID: true,
	}
	if !members[alice.ID] || !members[bob.ID] {
		t.Error("Expected both relationship members preloaded on the toggled track")
	}
}
