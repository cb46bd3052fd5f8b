package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/whosturn/server/internal/api/middleware"
	"github.com/whosturn/server/internal/api/services"
	"github.com/whosturn/server/internal/models"
	"github.com/whosturn/server/internal/repositories"
	"github.com/whosturn/server/internal/utils"
)

// CreateTrack godoc
// @Summary Create a track in a relationship
// @Description The creator takes the first turn. Name must be coffee, lunch, beer, or custom; custom tracks need a customName.
// @Tags Tracks
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/tracks [post]
func CreateTrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		RelationshipID string  `json:"relationshipId"`
		Name           string  `json:"name"`
		CustomName     *string `json:"customName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	relID, err := uuid.Parse(input.RelationshipID)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "relationshipId and name required")
		return
	}

	track, err := services.CreateTrack(repositories.DB, userID, relID, models.TrackName(input.Name), input.CustomName)
	if err != nil {
		writeServiceError(w, err, "Failed to create track")
		return
	}
	utils.JSONData(w, http.StatusCreated, "Track created", track)
}

// TrackByID godoc
// @Summary Get a track with its history
// @Description Returns the track, both relationship members, the current turn holder, and history entries newest first.
// @Tags Tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/tracks/{id} [get]
func TrackByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trackID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		track, err := services.GetTrack(repositories.DB, userID, trackID)
		if err != nil {
			writeServiceError(w, err, "Failed to fetch track")
			return
		}
		utils.JSONData(w, http.StatusOK, "Track retrieved", track)

	case http.MethodDelete:
		if err := services.DeleteTrack(repositories.DB, userID, trackID); err != nil {
			writeServiceError(w, err, "Failed to delete track")
			return
		}
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "Track deleted",
		})

	default:
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// ToggleTurn godoc
// @Summary Flip whose turn it is on a track
// @Description Atomically sets the turn holder to the other relationship member and appends a history entry. Only relationship members may toggle.
// @Tags Tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/tracks/{id}/toggle [post]
func ToggleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trackID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid track id")
		return
	}

	result, err := services.ToggleTurn(repositories.DB, userID, trackID)
	if err != nil {
		writeServiceError(w, err, "Failed to toggle turn")
		return
	}
	message := fmt.Sprintf("Turn toggled on %s, now on %s",
		result.Track.Label(), result.Track.CurrentTurnUser.DisplayName())
	utils.JSONData(w, http.StatusOK, message, result)
}
