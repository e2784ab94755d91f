package workflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"pennywise-backend/internal/identity"
	applog "pennywise-backend/internal/log"
)

// fakeIdentity implements identity.Provider in memory.
type fakeIdentity struct {
	mu        sync.Mutex
	passwords map[string]string // email -> password
	uids      map[string]string // email -> uid
	nextUID   int

	createErr error
	signOuts  int

	handlers []identity.Handler
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

func (f *fakeIdentity) assignUID(email string) string {
	f.nextUID++
	uid := fmt.Sprintf("uid-%d", f.nextUID)
	f.uids[email] = uid
	return uid
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.uids[email]; ok {
		return nil, identity.ErrEmailInUse
	}
	f.passwords[email] = password
	user := &identity.User{UID: f.assignUID(email), Email: email}
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
		uid = f.assignUID(profile.Email)
	}
	user := &identity.User{UID: uid, Email: profile.Email}
	f.emit(user)
	return user, !ok, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	f.emit(nil)
	return nil
}

func (f *fakeIdentity) OnChange(h identity.Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, h)
	return func() {}
}

// fakeGoogle implements GoogleExchanger.
type fakeGoogle struct {
	profile *identity.GoogleProfile
	err     error
}

func (f *fakeGoogle) Exchange(ctx context.Context, code string) (*identity.GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// failingStore implements docstore.Client and fails every operation.
type failingStore struct {
	err error
}

func (f *failingStore) QueryEquals(ctx context.Context, collection, field string, value any, out any) error {
	return f.err
}

func (f *failingStore) GetByID(ctx context.Context, collection, id string, out any) error {
	return f.err
}

func (f *failingStore) CreateWithID(ctx context.Context, collection, id string, body any) (string, error) {
	return "", f.err
}

func (f *failingStore) Update(ctx context.Context, collection, id string, body any) error {
	return f.err
}

func (f *failingStore) Delete(ctx context.Context, collection, id string) error {
	return f.err
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream value")
		panic("unreachable")
	}
}
