package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/whosturn/server/internal/api/middleware"
	"github.com/whosturn/server/internal/config"
	"github.com/whosturn/server/internal/demo"
	"github.com/whosturn/server/internal/repositories"
	"github.com/whosturn/server/internal/utils"
)

// StartDemo godoc
// @Summary Start a demo session
// @Description Seeds the fixed demo dataset if needed (idempotent) and sets the demo cookies so subsequent requests act as the demo user.
// @Tags Demo
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/demo/start [post]
func StartDemo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := demo.Seed(repositories.DB); err != nil {
		log.Println("Demo seed failed:", err)
		utils.JSONError(w, http.StatusInternalServerError, "Failed to start demo mode")
		return
	}

	demoUser, err := demo.GetUser(repositories.DB)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to start demo mode")
		return
	}

	isProd := config.Envs.Environment == "production"
	maxAge := int((24 * time.Hour).Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.DemoModeCookie,
		Value:    "true",
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.DemoUserIDCookie,
		Value:    demoUser.ID.String(),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSONData(w, http.StatusOK, "Demo mode started", map[string]any{
		"userId": demoUser.ID,
	})
}
