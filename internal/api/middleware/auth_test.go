package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/whosturn/server/internal/api/middleware"
	"github.com/whosturn/server/internal/config"
	"github.com/whosturn/server/internal/repositories"
	"github.com/whosturn/server/internal/testutil"
	"gorm.io/gorm"
)

func useTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	prev := repositories.DB
	repositories.DB = db
	t.Cleanup(func() { repositories.DB = prev })
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Envs.JWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func echoActor(captured *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := middleware.UserID(r); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareJWTCookie(t *testing.T) {
	db := testutil.SetupTestDB(t)
	useTestDB(t, db)
	alice := testutil.CreateUser(t, db, "Alice")

	var actor uuid.UUID
	handler := middleware.AuthMiddleware(echoActor(&actor))

	r := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, alice.ID.String())})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if actor != alice.ID {
		t.Errorf("Expected actor %s, got %s", alice.ID, actor)
	}
}

func TestAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	useTestDB(t, db)

	handler := middleware.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler must not run without auth")
	}))

	// No cookie at all.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/profile", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without cookie, got %d", rec.Code)
	}

	// Garbage token.
	r := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with bad token, got %d", rec.Code)
	}
}

func TestAuthMiddlewareDemoCookies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	useTestDB(t, db)
	demoUser := testutil.CreateUser(t, db, "Demo")

	var actor uuid.UUID
	handler := middleware.AuthMiddleware(echoActor(&actor))

	r := httptest.NewRequest(http.MethodGet, "/relationships", nil)
	r.AddCookie(&http.Cookie{Name: middleware.DemoModeCookie, Value: "true"})
	r.AddCookie(&http.Cookie{Name: middleware.DemoUserIDCookie, Value: demoUser.ID.String()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if actor != demoUser.ID {
		t.Errorf("Expected demo actor %s, got %s", demoUser.ID, actor)
	}
}

// A demo cookie pointing at a cleaned-up user must not authenticate.
func TestAuthMiddlewareStaleDemoCookie(t *testing.T) {
	db := testutil.SetupTestDB(t)
	useTestDB(t, db)

	handler := middleware.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler must not run with a stale demo cookie")
	}))

	r := httptest.NewRequest(http.MethodGet, "/relationships", nil)
	r.AddCookie(&http.Cookie{Name: middleware.DemoModeCookie, Value: "true"})
	r.AddCookie(&http.Cookie{Name: middleware.DemoUserIDCookie, Value: uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for stale demo cookie, got %d", rec.Code)
	}
}
