// Package session holds the application's current view of who is
// authenticated. A single writer — the identity-change handler plus the
// explicit login/logout paths — feeds four independently observable
// streams; everything else only reads.
package session

import (
	"context"
	"time"

	"pennywise-backend/internal/identity"
	"pennywise-backend/internal/log"
	"pennywise-backend/internal/models"
)

// Status is the tri-state login flag. Unknown only before the first
// identity notification arrives.
type Status int

const (
	StatusUnknown Status = iota
	StatusLoggedIn
	StatusLoggedOut
)

func (s Status) String() string {
	switch s {
	case StatusLoggedIn:
		return "true"
	case StatusLoggedOut:
		return "false"
	default:
		return "unknown"
	}
}

// UnknownUser is published when name resolution finds no profile or
// fails.
const UnknownUser = "Unknown User"

// ProfileFinder resolves a profile document by email. A nil user with a
// nil error means no match.
type ProfileFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store is the process-wide session state.
type Store struct {
	loggedIn    *Stream[Status]
	email       *Stream[string]
	userID      *Stream[string]
	displayName *Stream[string]

	profiles       ProfileFinder
	logger         *log.Logger
	resolveTimeout time.Duration
}

func New(profiles ProfileFinder, logger *log.Logger) *Store {
	return &Store{
		loggedIn:       newStream(StatusUnknown),
		email:          newStream(""),
		userID:         newStream(""),
		displayName:    newStream(""),
		profiles:       profiles,
		logger:         logger.WithComponent("session"),
		resolveTimeout: 5 * time.Second,
	}
}

// Stream accessors. Subscribers observe without triggering re-fetch.

func (s *Store) LoggedIn() *Stream[Status]    { return s.loggedIn }
func (s *Store) Email() *Stream[string]       { return s.email }
func (s *Store) UserID() *Stream[string]      { return s.userID }
func (s *Store) DisplayName() *Stream[string] { return s.displayName }

// HandleChange is the identity-change notification handler. A user sets
// logged-in, email and uid immediately and resolves the display name in
// the background; nil sets logged-out and clears email/uid. The display
// name is left for the explicit logout path to clear.
func (s *Store) HandleChange(user *identity.User) {
	if user == nil {
		s.loggedIn.publish(StatusLoggedOut)
		s.email.publish("")
		s.userID.publish("")
		return
	}

	s.loggedIn.publish(StatusLoggedIn)
	s.email.publish(user.Email)
	s.userID.publish(user.UID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.resolveTimeout)
		defer cancel()
		s.ResolveName(ctx, user.Email)
	}()
}

// ResolveName looks up the display name for email and publishes it,
// falling back to UnknownUser when no profile matches or the lookup
// fails. An empty email is a no-op.
func (s *Store) ResolveName(ctx context.Context, email string) string {
	if email == "" {
		return ""
	}

	name := UnknownUser
	user, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("display name lookup failed", "email", email, "error", err)
	} else if user != nil && user.Name != "" {
		name = user.Name
	}

	s.displayName.publish(name)
	return name
}

// SetEmail is the login path's direct email update.
func (s *Store) SetEmail(email string) {
	s.email.publish(email)
}

// Clear is the logout path: every field is reset and logged-out is
// re-emitted even when already logged out.
func (s *Store) Clear() {
	s.loggedIn.publish(StatusLoggedOut)
	s.email.publish("")
	s.userID.publish("")
	s.displayName.publish("")
}

// Snapshot is the current state as one value, for the HTTP surface.
type Snapshot struct {
	LoggedIn    string `json:"logged_in"`
	Email       string `json:"email"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		LoggedIn:    s.loggedIn.Get().String(),
		Email:       s.email.Get(),
		UserID:      s.userID.Get(),
		DisplayName: s.displayName.Get(),
	}
}
