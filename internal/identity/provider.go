// Package identity is the authentication collaborator: it owns
// credentials, verifies sign-ins, and notifies a subscriber whenever the
// signed-in user changes.
package identity

import (
	"context"
	"errors"
)

// User is the identity the provider reports on sign-in and through
// change notifications. UID is assigned by the provider and immutable.
type User struct {
	UID   string
	Email string
}

// Handler receives identity-change notifications. A nil user means
// signed out. Delivery is sequential: a handler is never invoked
// concurrently with itself.
type Handler func(user *User)

// Provider is the identity contract the workflow layer depends on.
type Provider interface {
	CreateUser(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	// SignInWithGoogle signs in a federated profile. The second return
	// reports whether the profile was seen for the first time.
	SignInWithGoogle(ctx context.Context, profile *GoogleProfile) (*User, bool, error)
	SignOut(ctx context.Context) error
	// OnChange registers a notification handler and returns a cancel
	// func that removes it.
	OnChange(h Handler) (cancel func())
}

var (
	// ErrEmailInUse is returned by CreateUser for a duplicate email.
	ErrEmailInUse = errors.New("identity: email already in use")
	// ErrInvalidCredentials is returned by SignIn when the email is
	// unknown or the password does not match.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)
