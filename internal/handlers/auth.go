package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pennywise-backend/internal/identity"
	"pennywise-backend/internal/log"
	"pennywise-backend/internal/repository"
	"pennywise-backend/internal/validation"
	"pennywise-backend/internal/workflow"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Views the client navigates to after auth transitions.
const (
	budgetView       = "/budget"
	registrationView = "/registration"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	wf        *workflow.Workflow
	users     *repository.UserRepo
	google    *identity.GoogleClient
	jwtSecret string
	logger    *log.Logger
}

func NewAuthHandler(wf *workflow.Workflow, users *repository.UserRepo, google *identity.GoogleClient, jwtSecret string, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		wf:        wf,
		users:     users,
		google:    google,
		jwtSecret: jwtSecret,
		logger:    logger.WithComponent("handlers"),
	}
}

// --- POST /auth/register ---

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form validation.RegistrationForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	uid, err := h.wf.Register(r.Context(), form)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	token, err := h.mintToken(r.Context(), uid, form.Email)
	if err != nil {
		h.logger.Error("signing token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"token":    token,
		"user_id":  uid,
		"redirect": budgetView,
	})
}

// --- POST /auth/login ---

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form validation.LoginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.wf.Login(r.Context(), form)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	token, err := h.mintToken(r.Context(), user.UID, user.Email)
	if err != nil {
		h.logger.Error("signing token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"user_id":  user.UID,
		"redirect": budgetView,
	})
}

// --- GET /auth/google ---

func (h *AuthHandler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "google sign-in is not configured"})
		return
	}

	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusSeeOther)
}

// --- GET /auth/google/callback ---

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "google sign-in is not configured"})
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid oauth state"})
		return
	}

	result, err := h.wf.LoginWithGoogle(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "google sign-in failed"})
		return
	}

	token, err := h.mintToken(r.Context(), result.User.UID, result.User.Email)
	if err != nil {
		h.logger.Error("signing token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	h.setSessionCookie(w, token)

	// First-time Google users complete their profile before anything is
	// written to the document store.
	if result.IsNewUser {
		http.Redirect(w, r, registrationView, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, budgetView, http.StatusSeeOther)
}

// --- POST /auth/logout ---

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.wf.Logout(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// --- Helpers ---

func (h *AuthHandler) writeWorkflowError(w http.ResponseWriter, err error) {
	var fieldErrs validation.Errors
	var storeErr *workflow.StoreError
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs.Fields()})
	case errors.Is(err, identity.ErrEmailInUse):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already in use"})
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	case errors.As(err, &storeErr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save profile"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// mintToken signs the session JWT. The role claim comes from the
// profile document, defaulting to "user" while no profile exists yet.
func (h *AuthHandler) mintToken(ctx context.Context, uid, email string) (string, error) {
	role := "user"
	if profile, err := h.users.FindByID(ctx, uid); err == nil && profile != nil && profile.Role != "" {
		role = profile.Role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uid,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
}
