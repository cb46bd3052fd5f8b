package services_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/whosturn/server/internal/api/services"
	"github.com/whosturn/server/internal/models"
	"github.com/whosturn/server/internal/testutil"
)

func TestCreateTrack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, bob, rel := testutil.CreatePair(t, db, "Alice", "Bob")

	tests := []struct {
		name       string
		requester  uuid.UUID
		trackName  models.TrackName
		customName *string
		wantErr    error
	}{
		{
			name:      "coffee track, creator takes first turn",
			requester: alice.ID,
			trackName: models.TrackCoffee,
		},
		{
			name:      "second member can create too",
			requester: bob.ID,
			trackName: models.TrackLunch,
		},
		{
			name:       "custom track with custom name",
			requester:  alice.ID,
			trackName:  models.TrackCustom,
			customName: strptr("Movie Night"),
		},
		{
			name:      "invalid name rejected",
			requester: alice.ID,
			trackName: "dinner",
			wantErr:   services.ErrValidation,
		},
		{
			name:      "custom without custom name rejected",
			requester: alice.ID,
			trackName: models.TrackCustom,
			wantErr:   services.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, err := services.CreateTrack(db, tt.requester, rel.ID, tt.trackName, tt.customName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateTrack failed: %v", err)
			}
			if track.CurrentTurnUserID != tt.requester {
				t.Errorf("Expected creator %s to hold the first turn, got %s", tt.requester, track.CurrentTurnUserID)
			}
			if track.CurrentTurnUser.ID != tt.requester {
				t.Error("Expected turn holder joined on the created track")
			}
		})
	}
}

func TestCreateTrackDropsCustomNameForFixedCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, _, rel := testutil.CreatePair(t, db, "Alice", "Bob")

	track, err := services.CreateTrack(db, alice.ID, rel.ID, models.TrackBeer, strptr("ignored"))
	if err != nil {
		t.Fatalf("CreateTrack failed: %v", err)
	}
	if track.CustomName != nil {
		t.Errorf("Expected customName dropped for beer track, got %q", *track.CustomName)
	}
}

func TestCreateTrackAuthorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, _, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	carol := testutil.CreateUser(t, db, "Carol")

	_, err := services.CreateTrack(db, carol.ID, rel.ID, models.TrackCoffee, nil)
	if !errors.Is(err, services.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}

	_, err = services.CreateTrack(db, carol.ID, uuid.New(), models.TrackCoffee, nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetTrackWithHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, bob, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackCoffee, alice)

	if _, err := services.ToggleTurn(db, alice.ID, track.ID); err != nil {
		t.Fatalf("ToggleTurn failed: %v", err)
	}
	if _, err := services.ToggleTurn(db, bob.ID, track.ID); err != nil {
		t.Fatalf("ToggleTurn failed: %v", err)
	}

	got, err := services.GetTrack(db, alice.ID, track.ID)
	if err != nil {
		t.Fatalf("GetTrack failed: %v", err)
	}
	if len(got.History) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(got.History))
	}
	// Newest first.
	if got.History[0].Timestamp.Before(got.History[1].Timestamp) {
		t.Error("Expected history ordered newest first")
	}
	if got.History[0].FromUser.ID == uuid.Nil || got.History[0].ToUser.ID == uuid.Nil {
		t.Error("Expected from/to users joined on history entries")
	}

	carol := testutil.CreateUser(t, db, "Carol")
	if _, err := services.GetTrack(db, carol.ID, track.ID); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-member, got %v", err)
	}
}

func TestDeleteTrackCascadesHistoryOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, _, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackCoffee, alice)
	other := testutil.CreateTrack(t, db, rel, models.TrackLunch, alice)

	if _, err := services.ToggleTurn(db, alice.ID, track.ID); err != nil {
		t.Fatalf("ToggleTurn failed: %v", err)
	}

	if err := services.DeleteTrack(db, alice.ID, track.ID); err != nil {
		t.Fatalf("DeleteTrack failed: %v", err)
	}

	if n := testutil.Count(t, db, &models.History{}, "track_id = ?", track.ID); n != 0 {
		t.Error("History not cascaded on track delete")
	}
	if n := testutil.Count(t, db, &models.Relationship{}, "id = ?", rel.ID); n != 1 {
		t.Error("Relationship must survive a track delete")
	}
	if n := testutil.Count(t, db, &models.Track{}, "id = ?", other.ID); n != 1 {
		t.Error("Sibling track must survive a track delete")
	}
}

func TestDeleteTrackAuthorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, _, rel := testutil.CreatePair(t, db, "Alice", "Bob")
	track := testutil.CreateTrack(t, db, rel, models.TrackCoffee, alice)
	carol := testutil.CreateUser(t, db, "Carol")

	if err := services.DeleteTrack(db, carol.ID, track.ID); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if err := services.DeleteTrack(db, alice.ID, uuid.New()); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if n := testutil.Count(t, db, &models.Track{}, "id = ?", track.ID); n != 1 {
		t.Error("Track must be untouched after failed deletes")
	}
}

func strptr(s string) *string { return &s }
