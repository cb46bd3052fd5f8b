package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/whosturn/server/internal/api/middleware"
	"github.com/whosturn/server/internal/api/services"
	"github.com/whosturn/server/internal/config"
	"github.com/whosturn/server/internal/models"
	"github.com/whosturn/server/internal/repositories"
	"github.com/whosturn/server/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims carried in the session cookie.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const sessionLifetime = 24 * time.Hour

const oauthStateCookie = "oauth_state"

// issueSession signs a JWT for the user and sets it as the session cookie.
func issueSession(w http.ResponseWriter, user *models.User) error {
	expiration := time.Now().Add(sessionLifetime)
	claims := &Claims{
		UserID:   user.ID.String(),
		Username: user.DisplayName(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.Envs.JWTSecret))
	if err != nil {
		return err
	}

	isProd := config.Envs.Environment == "production"
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(sessionLifetime.Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return nil
}

// RegisterUser godoc
// @Summary Register with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/auth/sign-up [post]
func RegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil || input.Name == "" || input.Email == "" || input.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var existing models.User
	err := repositories.DB.Where("email = ?", input.Email).First(&existing).Error
	switch {
	case err == nil:
		utils.JSONError(w, http.StatusConflict, "User already exists with this email")
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		utils.JSONError(w, http.StatusInternalServerError, "Database query failed")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	newUser := models.User{
		Username: input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
	}
	if err := repositories.DB.Create(&newUser).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database insert failed")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User registered successfully",
	})
}

// LoginUser godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/login [post]
func LoginUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil || input.Email == "" || input.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	err := repositories.DB.Where("email = ?", input.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.JSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Google-only accounts have no password to compare.
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := issueSession(w, &user); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
	})
}

// clearSessionCookies expires the JWT cookie and both demo cookies.
func clearSessionCookies(w http.ResponseWriter) {
	isProd := config.Envs.Environment == "production"

	for _, name := range []string{"token", middleware.DemoModeCookie, middleware.DemoUserIDCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Secure:   isProd,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// Logout godoc
// @Summary Clear the session and demo cookies
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/auth/logout [post]
func Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookies(w)

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}

// HandleGoogleLogin redirects to Google's consent screen. The random state
// is kept in a short-lived cookie and checked on the callback.
func HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to generate OAuth state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   config.Envs.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	url := services.GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleGoogleCallback exchanges the code, fetches the Google profile, and
// signs the user in. First sign-in creates the identity record; later
// sign-ins reuse it (find-or-create keyed on email).
func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || r.FormValue("state") != stateCookie.Value {
		utils.JSONError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	token, err := services.GoogleOauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Println("OAuth code exchange failed:", err)
		utils.JSONError(w, http.StatusInternalServerError, "Code exchange failed")
		return
	}

	googleUser, err := fetchGoogleProfile(r.Context(), token.AccessToken)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to get user info")
		return
	}

	var user models.User
	err = repositories.DB.Where("email = ?", googleUser.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Email:    googleUser.Email,
			Username: googleUser.Name,
		}
		if googleUser.Picture != "" {
			user.Image = &googleUser.Picture
		}
		if err := repositories.DB.Create(&user).Error; err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
	case err != nil:
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := issueSession(w, &user); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	http.Redirect(w, r, config.Envs.FrontendURL+"/dashboard", http.StatusTemporaryRedirect)
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleProfile(ctx context.Context, accessToken string) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var profile googleProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
