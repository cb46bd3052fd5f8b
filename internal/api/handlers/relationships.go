package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/whosturn/server/internal/api/middleware"
	"github.com/whosturn/server/internal/api/services"
	"github.com/whosturn/server/internal/repositories"
	"github.com/whosturn/server/internal/utils"
)

// Relationships godoc
// @Summary List or create relationships
// @Description GET returns the current user's relationships with members and tracks joined, newest first. POST pairs the current user with another user; duplicate pairs in either direction are rejected.
// @Tags Relationships
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /api/v1/relationships [get]
func Relationships(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rels, err := services.ListRelationships(repositories.DB, userID)
		if err != nil {
			writeServiceError(w, err, "Failed to fetch relationships")
			return
		}
		utils.JSONData(w, http.StatusOK, "Relationships retrieved", rels)

	case http.MethodPost:
		var input struct {
			User2ID string `json:"user2Id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		targetID, err := uuid.Parse(input.User2ID)
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "user2Id required")
			return
		}

		rel, err := services.CreateRelationship(repositories.DB, userID, targetID)
		if err != nil {
			writeServiceError(w, err, "Failed to create relationship")
			return
		}
		utils.JSONData(w, http.StatusCreated, "Relationship created", rel)

	default:
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// DeleteRelationship godoc
// @Summary Delete a relationship
// @Description Removes a relationship the current user is a member of. Its tracks and their history cascade away.
// @Tags Relationships
// @Produce json
// @Param id path string true "Relationship ID"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/relationships/{id} [delete]
func DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	relID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid relationship id")
		return
	}

	if err := services.DeleteRelationship(repositories.DB, userID, relID); err != nil {
		writeServiceError(w, err, "Failed to delete relationship")
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Relationship deleted",
	})
}
