package api

import (
	"fmt"
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/whosturn/server/docs"

	"github.com/rs/cors"
	"github.com/whosturn/server/internal/api/handlers"
	"github.com/whosturn/server/internal/api/middleware"
	"github.com/whosturn/server/internal/config"
)

func SetupRouter() http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("/sign-up", handlers.RegisterUser)
	authMux.HandleFunc("/login", handlers.LoginUser)
	authMux.HandleFunc("/google/login", handlers.HandleGoogleLogin)
	authMux.HandleFunc("/google/callback", handlers.HandleGoogleCallback)
	// Logout only clears cookies, so it needs no session check. It also must
	// not sit behind the auth middleware: /api/v1/auth/ is the more specific
	// pattern and would shadow it anyway.
	authMux.HandleFunc("/logout", handlers.Logout)

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	mainMux.HandleFunc("/api/v1/demo/start", handlers.StartDemo)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	userMux := http.NewServeMux()
	userMux.HandleFunc("/profile", handlers.Profile)
	userMux.HandleFunc("/search", handlers.SearchUser)
	userMux.HandleFunc("/account", handlers.DeleteAccount)
	userMux.HandleFunc("/avatar/presign", handlers.PresignAvatar)

	relationshipMux := http.NewServeMux()
	relationshipMux.HandleFunc("/{id}", handlers.DeleteRelationship)

	trackMux := http.NewServeMux()
	trackMux.HandleFunc("/{id}", handlers.TrackByID)
	trackMux.HandleFunc("/{id}/toggle", handlers.ToggleTurn)

	protectedMux.Handle("/users/",
		http.StripPrefix("/users", userMux),
	)
	protectedMux.HandleFunc("/relationships", handlers.Relationships)
	protectedMux.Handle("/relationships/",
		http.StripPrefix("/relationships", relationshipMux),
	)
	protectedMux.HandleFunc("/tracks", handlers.CreateTrack)
	protectedMux.Handle("/tracks/",
		http.StripPrefix("/tracks", trackMux),
	)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			middleware.AuthMiddleware(protectedMux),
		),
	)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
