package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthCodeURL(t *testing.T) {
	client := NewGoogle(GoogleConfig{
		ClientID:    "client-123",
		CallbackURL: "https://app.test/auth/google/callback",
	})

	raw := client.AuthCodeURL("state-abc")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "client-123", query.Get("client_id"))
	assert.Equal(t, "https://app.test/auth/google/callback", query.Get("redirect_uri"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "state-abc", query.Get("state"))
	assert.Contains(t, query.Get("scope"), "email")
}

func TestExchange(t *testing.T) {
	var tokenForm url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		tokenForm = r.PostForm
		json.NewEncoder(w).Encode(map[string]string{"access_token": "access-xyz"})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-xyz", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(GoogleProfile{
			Sub:           "sub-1",
			Email:         "ann@test.com",
			EmailVerified: true,
			Name:          "Ann",
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewGoogle(GoogleConfig{
		ClientID:     "client-123",
		ClientSecret: "shh",
		CallbackURL:  "https://app.test/cb",
		TokenURL:     server.URL + "/token",
		UserInfoURL:  server.URL + "/userinfo",
	})

	profile, err := client.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "ann@test.com", profile.Email)
	assert.Equal(t, "Ann", profile.Name)

	assert.Equal(t, "the-code", tokenForm.Get("code"))
	assert.Equal(t, "authorization_code", tokenForm.Get("grant_type"))
	assert.Equal(t, "client-123", tokenForm.Get("client_id"))
}

func TestExchangeTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewGoogle(GoogleConfig{TokenURL: server.URL, UserInfoURL: server.URL})
	_, err := client.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}
