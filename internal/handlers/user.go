package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pennywise-backend/internal/log"
	"pennywise-backend/internal/middleware"
	"pennywise-backend/internal/repository"
	"pennywise-backend/internal/session"
	"pennywise-backend/internal/validation"
	"pennywise-backend/internal/workflow"
)

type UserHandler struct {
	wf       *workflow.Workflow
	users    *repository.UserRepo
	sessions *session.Store
	logger   *log.Logger
}

func NewUserHandler(wf *workflow.Workflow, users *repository.UserRepo, sessions *session.Store, logger *log.Logger) *UserHandler {
	return &UserHandler{
		wf:       wf,
		users:    users,
		sessions: sessions,
		logger:   logger.WithComponent("handlers"),
	}
}

// --- GET /session ---

// Session reports the process-wide session snapshot, including the
// tri-state logged-in flag. Public: the client polls it before the
// first identity notification has arrived.
func (h *UserHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.Snapshot())
}

// --- GET /user/profile ---

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("finding user failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// --- PUT /user/profile ---

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var form validation.RegistrationForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.wf.UpdateProfile(r.Context(), userID, form); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs.Fields()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}
