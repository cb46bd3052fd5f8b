package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/whosturn/server/internal/config"
	"github.com/whosturn/server/internal/models"
	"github.com/whosturn/server/internal/repositories"
	"github.com/whosturn/server/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

const (
	DemoModeCookie   = "demo_mode"
	DemoUserIDCookie = "demo_user_id"
)

// UserID extracts the authenticated actor from the request context.
func UserID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	return id, ok
}

// AuthMiddleware resolves the current actor and stores their id in the
// request context. Demo cookies win over a JWT session so a trial user who
// also has a real account keeps the demo sandbox. Handlers and services only
// ever see the resolved user id.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if userID, ok := demoActor(r); ok {
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		userID, ok := sessionActor(r)
		if !ok {
			utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// demoActor resolves the demo_mode / demo_user_id cookie pair. The user row
// must still exist; a stale cookie after cleanup falls through to JWT auth.
func demoActor(r *http.Request) (uuid.UUID, bool) {
	mode, err := r.Cookie(DemoModeCookie)
	if err != nil || mode.Value != "true" {
		return uuid.Nil, false
	}
	idCookie, err := r.Cookie(DemoUserIDCookie)
	if err != nil {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(idCookie.Value)
	if err != nil {
		return uuid.Nil, false
	}

	var user models.User
	if err := repositories.DB.First(&user, "id = ?", userID).Error; err != nil {
		return uuid.Nil, false
	}
	return user.ID, true
}

func sessionActor(r *http.Request) (uuid.UUID, bool) {
	tokenStr, err := r.Cookie("token")
	if err != nil {
		return uuid.Nil, false
	}

	token, err := jwt.Parse(tokenStr.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Envs.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false
	}

	idStr, ok := claims["userId"].(string)
	if !ok || idStr == "" {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
