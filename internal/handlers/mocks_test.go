package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"pennywise-backend/internal/identity"
	applog "pennywise-backend/internal/log"
)

// fakeIdentity implements identity.Provider in memory.
type fakeIdentity struct {
	mu        sync.Mutex
	passwords map[string]string
	uids      map[string]string
	nextUID   int
	handlers  []identity.Handler
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		passwords: make(map[string]string),
		uids:      make(map[string]string),
	}
}

func (f *fakeIdentity) emit(user *identity.User) {
	for _, h := range f.handlers {
		h(user)
	}
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.uids[email]; ok {
		return nil, identity.ErrEmailInUse
	}
	f.nextUID++
	uid := fmt.Sprintf("uid-%d", f.nextUID)
	f.passwords[email] = password
	f.uids[email] = uid
	user := &identity.User{UID: uid, Email: email}
	f.emit(user)
	return user, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.passwords[email]
	if !ok || stored != password {
		return nil, identity.ErrInvalidCredentials
	}
	user := &identity.User{UID: f.uids[email], Email: email}
	f.emit(user)
	return user, nil
}

func (f *fakeIdentity) SignInWithGoogle(ctx context.Context, profile *identity.GoogleProfile) (*identity.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid, ok := f.uids[profile.Email]
	if !ok {
		f.nextUID++
		uid = fmt.Sprintf("uid-%d", f.nextUID)
		f.uids[profile.Email] = uid
	}
	user := &identity.User{UID: uid, Email: profile.Email}
	f.emit(user)
	return user, !ok, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emit(nil)
	return nil
}

func (f *fakeIdentity) OnChange(h identity.Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, h)
	return func() {}
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}
