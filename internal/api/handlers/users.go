package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/whosturn/server/internal/api/middleware"
	"github.com/whosturn/server/internal/api/services"
	"github.com/whosturn/server/internal/repositories"
	"github.com/whosturn/server/internal/utils"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy becomes an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrConflict):
		utils.JSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	default:
		utils.JSONError(w, http.StatusInternalServerError, fallback)
	}
}

// Profile godoc
// @Summary Get or update the current user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /api/v1/users/profile [get]
func Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := services.GetProfile(repositories.DB, userID)
		if err != nil {
			writeServiceError(w, err, "Failed to fetch profile")
			return
		}
		utils.JSONData(w, http.StatusOK, "Profile retrieved", user)

	case http.MethodPatch:
		var input struct {
			Nickname         *string `json:"nickname"`
			UniqueIdentifier *string `json:"uniqueIdentifier"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "Invalid input")
			return
		}

		user, err := services.UpdateProfile(repositories.DB, userID, services.ProfileUpdate{
			Nickname:         input.Nickname,
			UniqueIdentifier: input.UniqueIdentifier,
		})
		if err != nil {
			writeServiceError(w, err, "Failed to update profile")
			return
		}
		utils.JSONData(w, http.StatusOK, "Profile updated", user)

	default:
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// SearchUser godoc
// @Summary Find a user by public handle
// @Tags Users
// @Produce json
// @Param identifier query string true "Public handle"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/users/search [get]
func SearchUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := services.SearchByIdentifier(repositories.DB, userID, r.URL.Query().Get("identifier"))
	if err != nil {
		writeServiceError(w, err, "Failed to search")
		return
	}
	utils.JSONData(w, http.StatusOK, "User found", user.Public())
}

// DeleteAccount godoc
// @Summary Delete the current user's account
// @Description Removes the user and, through the cascade, every relationship, track, and history entry they were part of.
// @Tags Users
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/users/account [delete]
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := services.DeleteAccount(r.Context(), repositories.DB, userID); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	// The account is gone; so is any session or demo state.
	clearSessionCookies(w)
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Account deleted",
	})
}

// PresignAvatar godoc
// @Summary Get a presigned upload URL for the profile avatar
// @Tags Users
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/users/avatar/presign [post]
func PresignAvatar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	url, err := repositories.PresignAvatarUpload(r.Context(), userID, 15*time.Minute)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	publicURL := repositories.AvatarPublicURL(userID)
	if err := services.SetAvatar(repositories.DB, userID, publicURL); err != nil {
		writeServiceError(w, err, "Failed to update profile image")
		return
	}

	utils.JSONData(w, http.StatusOK, "Presigned upload URL generated", map[string]any{
		"uploadUrl": url,
		"publicUrl": publicURL,
		"expiresIn": "15m",
	})
}
