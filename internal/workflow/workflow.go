// Package workflow ties form submissions to the identity provider and
// the document store. Every collaborator failure is handled here; none
// propagate into the session store or the route guard.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"pennywise-backend/internal/identity"
	"pennywise-backend/internal/log"
	"pennywise-backend/internal/models"
	"pennywise-backend/internal/notify"
	"pennywise-backend/internal/repository"
	"pennywise-backend/internal/session"
	"pennywise-backend/internal/validation"
)

// GoogleExchanger trades an OAuth authorization code for a profile.
// Implemented by identity.GoogleClient.
type GoogleExchanger interface {
	Exchange(ctx context.Context, code string) (*identity.GoogleProfile, error)
}

// ErrGoogleNotConfigured is returned by LoginWithGoogle when no exchanger
// was wired in.
var ErrGoogleNotConfigured = errors.New("google sign-in is not configured")

// WelcomeSender delivers the post-registration email, best-effort.
type WelcomeSender interface {
	SendWelcome(name, email string) error
}

// GoogleLogin is the result of a Google sign-in. IsNewUser directs the
// caller to the registration flow so the profile can be completed.
type GoogleLogin struct {
	User      *identity.User
	IsNewUser bool
}

type Workflow struct {
	idp      identity.Provider
	google   GoogleExchanger
	users    *repository.UserRepo
	sessions *session.Store
	notifier notify.Notifier
	welcome  WelcomeSender
	logger   *log.Logger
}

func New(
	idp identity.Provider,
	google GoogleExchanger,
	users *repository.UserRepo,
	sessions *session.Store,
	notifier notify.Notifier,
	welcome WelcomeSender,
	logger *log.Logger,
) *Workflow {
	return &Workflow{
		idp:      idp,
		google:   google,
		users:    users,
		sessions: sessions,
		notifier: notifier,
		welcome:  welcome,
		logger:   logger.WithComponent("workflow"),
	}
}

// Register creates the credential for a valid form and proceeds to
// SaveProfile. On credential failure the error is logged once and
// session state stays untouched; there is no retry.
func (w *Workflow) Register(ctx context.Context, form validation.RegistrationForm) (string, error) {
	if errs := form.Validate(); errs != nil {
		return "", errs
	}

	user, err := w.idp.CreateUser(ctx, form.Email, form.Password)
	if err != nil {
		w.logger.Error("registration failed", "email", form.Email, "error", err)
		return "", err
	}

	w.sessions.ResolveName(ctx, user.Email)
	w.notifier.Success(fmt.Sprintf("%s's registration was successful!", form.Name))

	if w.welcome != nil {
		go func() {
			if err := w.welcome.SendWelcome(form.Name, form.Email); err != nil {
				w.logger.Error("welcome email failed", "email", form.Email, "error", err)
			}
		}()
	}

	return user.UID, w.SaveProfile(ctx, user.UID, form)
}

// SaveProfile writes the profile document keyed by pendingUserID (store
// assigns an id when empty). On failure it only logs, leaving the
// caller's form populated for a manual retry.
func (w *Workflow) SaveProfile(ctx context.Context, pendingUserID string, form validation.RegistrationForm) error {
	user := profileFromForm(form)
	user.ID = pendingUserID

	if err := w.users.Create(ctx, user); err != nil {
		w.logger.Error("profile save failed", "user_id", pendingUserID, "error", err)
		return &StoreError{Op: "save profile", Err: err}
	}
	return nil
}

// UpdateProfile overwrites the existing profile with the form values.
// The old document is read for a change diff first.
func (w *Workflow) UpdateProfile(ctx context.Context, userID string, form validation.RegistrationForm) error {
	if errs := form.Validate(); errs != nil {
		return errs
	}

	updated := profileFromForm(form)

	old, err := w.users.FindByID(ctx, userID)
	if err != nil {
		w.logger.Error("profile read failed", "user_id", userID, "error", err)
	} else if old != nil {
		updated.Role = old.Role
		updated.CreatedAt = old.CreatedAt
		// TODO: skip the write when nothing changed
		_ = reflect.DeepEqual(old, updated)
	}

	if err := w.users.Update(ctx, userID, updated); err != nil {
		w.logger.Error("profile update failed", "user_id", userID, "error", err)
		return &StoreError{Op: "update profile", Err: err}
	}

	w.notifier.Success("User updated successfully!")
	return nil
}

// Login signs in with email and password. On success the session email
// and display name are refreshed and the caller navigates to the budget
// view; on failure only a log line is emitted and session state is left
// alone.
func (w *Workflow) Login(ctx context.Context, form validation.LoginForm) (*identity.User, error) {
	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	user, err := w.idp.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		w.logger.Error("login failed", "email", form.Email, "error", err)
		return nil, err
	}

	w.sessions.SetEmail(user.Email)
	w.sessions.ResolveName(ctx, user.Email)
	w.notifier.Success("You logged in successfully")
	return user, nil
}

// LoginWithGoogle completes the consent flow for an authorization code.
// First-time users are flagged so the caller redirects them to the
// registration view before any profile document exists. Failures are
// surfaced as a transient notification and change no state.
func (w *Workflow) LoginWithGoogle(ctx context.Context, code string) (GoogleLogin, error) {
	if w.google == nil {
		return GoogleLogin{}, ErrGoogleNotConfigured
	}

	profile, err := w.google.Exchange(ctx, code)
	if err != nil {
		w.logger.Error("google sign-in failed", "error", err)
		w.notifier.Failure("Something went wrong signing in with Google")
		return GoogleLogin{}, err
	}

	user, isNewUser, err := w.idp.SignInWithGoogle(ctx, profile)
	if err != nil {
		w.logger.Error("google sign-in failed", "email", profile.Email, "error", err)
		w.notifier.Failure("Something went wrong signing in with Google")
		return GoogleLogin{}, err
	}

	w.sessions.SetEmail(user.Email)
	w.sessions.ResolveName(ctx, user.Email)
	w.notifier.Success("You logged in successfully")
	return GoogleLogin{User: user, IsNewUser: isNewUser}, nil
}

// Logout signs out and clears every session field. Safe to call when
// already logged out: logged-out is simply re-emitted.
func (w *Workflow) Logout(ctx context.Context) error {
	if err := w.idp.SignOut(ctx); err != nil {
		w.logger.Error("logout failed", "error", err)
		return err
	}

	w.sessions.Clear()
	w.notifier.Success("You logged out successfully")
	return nil
}

// profileFromForm maps submitted values to a profile document. The
// password never reaches the document store.
func profileFromForm(form validation.RegistrationForm) *models.User {
	return &models.User{
		Name:             form.Name,
		Email:            form.Email,
		Age:              form.Age,
		Married:          form.Married,
		NumberOfChildren: form.NumberOfChildren,
		StartBudget:      form.StartBudget,
		MonthlySalary:    form.MonthlySalary,
		Role:             models.DefaultRole,
	}
}
