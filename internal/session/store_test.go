package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"pennywise-backend/internal/identity"
	applog "pennywise-backend/internal/log"
	"pennywise-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	byEmail map[string]*models.User
	err     error
}

func (f *fakeProfiles) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
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

func TestHandleChangeWithUser(t *testing.T) {
	profiles := &fakeProfiles{byEmail: map[string]*models.User{
		"ann@test.com": {Name: "Ann", Email: "ann@test.com"},
	}}
	store := New(profiles, quietLogger())

	names, cancel := store.DisplayName().Subscribe()
	defer cancel()

	store.HandleChange(&identity.User{UID: "u1", Email: "ann@test.com"})

	assert.Equal(t, StatusLoggedIn, store.LoggedIn().Get())
	assert.Equal(t, "ann@test.com", store.Email().Get())
	assert.Equal(t, "u1", store.UserID().Get())

	// Name resolution is eventually consistent with login state.
	assert.Equal(t, "Ann", waitFor(t, names))
}

func TestHandleChangeNameFallsBackToSentinel(t *testing.T) {
	store := New(&fakeProfiles{}, quietLogger())

	names, cancel := store.DisplayName().Subscribe()
	defer cancel()

	store.HandleChange(&identity.User{UID: "u1", Email: "ghost@test.com"})
	assert.Equal(t, UnknownUser, waitFor(t, names))
}

func TestHandleChangeNameLookupFailure(t *testing.T) {
	store := New(&fakeProfiles{err: errors.New("boom")}, quietLogger())

	names, cancel := store.DisplayName().Subscribe()
	defer cancel()

	store.HandleChange(&identity.User{UID: "u1", Email: "ann@test.com"})
	assert.Equal(t, UnknownUser, waitFor(t, names))
}

func TestHandleChangeWithNilUser(t *testing.T) {
	profiles := &fakeProfiles{byEmail: map[string]*models.User{
		"ann@test.com": {Name: "Ann"},
	}}
	store := New(profiles, quietLogger())

	names, cancel := store.DisplayName().Subscribe()
	defer cancel()
	store.HandleChange(&identity.User{UID: "u1", Email: "ann@test.com"})
	waitFor(t, names)

	store.HandleChange(nil)

	assert.Equal(t, StatusLoggedOut, store.LoggedIn().Get())
	assert.Empty(t, store.Email().Get())
	assert.Empty(t, store.UserID().Get())
	// The name is cleared by the explicit logout path, not here.
	assert.Equal(t, "Ann", store.DisplayName().Get())
}

func TestResolveNameEmptyEmailIsNoOp(t *testing.T) {
	store := New(&fakeProfiles{}, quietLogger())

	got := store.ResolveName(context.Background(), "")
	assert.Empty(t, got)
	assert.Empty(t, store.DisplayName().Get())
}

func TestClearIsIdempotent(t *testing.T) {
	store := New(&fakeProfiles{}, quietLogger())

	statuses, cancel := store.LoggedIn().Subscribe()
	defer cancel()

	store.Clear()
	store.Clear()

	// Logged-out is re-emitted on every clear.
	assert.Equal(t, StatusLoggedOut, waitFor(t, statuses))
	assert.Equal(t, StatusLoggedOut, waitFor(t, statuses))
	assert.Empty(t, store.Email().Get())
	assert.Empty(t, store.UserID().Get())
	assert.Empty(t, store.DisplayName().Get())
}

func TestStatusStartsUnknown(t *testing.T) {
	store := New(&fakeProfiles{}, quietLogger())
	assert.Equal(t, StatusUnknown, store.LoggedIn().Get())

	snap := store.Snapshot()
	assert.Equal(t, "unknown", snap.LoggedIn)
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	store := New(&fakeProfiles{}, quietLogger())

	emails, cancel := store.Email().Subscribe()
	cancel()

	_, open := <-emails
	require.False(t, open)
}
