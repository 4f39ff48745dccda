package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dilse/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *SessionStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	return New(server.URL, store), store
}

func TestLoginPersistsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "moonlit_ghost", creds.Nickname)

		_ = json.NewEncoder(w).Encode(authResponse{
			Token: "signed-token",
			User:  models.User{ID: "user-1", Nickname: "moonlit_ghost"},
		})
	})

	client, store := newTestClient(t, mux)

	session, err := client.Login(context.Background(), "moonlit_ghost", "password123")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", session.Token)
	assert.Equal(t, "moonlit_ghost", session.User.Nickname)

	// The session survives a fresh store pointed at the same file.
	reloaded, err := NewSessionStore(store.path).Current()
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, "signed-token", reloaded.Token)
	assert.Equal(t, "user-1", reloaded.User.ID)
}

func TestLoginRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Message: "Invalid credentials"})
	})

	client, store := newTestClient(t, mux)

	_, err := client.Login(context.Background(), "moonlit_ghost", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	session, err := store.Current()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestExpiredSessionIsCleared(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Message: "Invalid or expired token"})
	})

	client, store := newTestClient(t, mux)
	require.NoError(t, store.Save(Session{Token: "stale-token"}))

	_, err := client.CreatePost(context.Background(), "Title", "Content", models.TagHope)
	require.ErrorIs(t, err, ErrSessionExpired)

	session, err := store.Current()
	require.NoError(t, err)
	assert.Nil(t, session, "a rejected token should be dropped from disk")
}

func TestAuthedCallWithoutSession(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())

	_, err := client.React(context.Background(), "post-1", models.ReactionHearts)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/{id}/reply", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(models.Post{ID: r.PathValue("id")})
	})

	client, store := newTestClient(t, mux)
	require.NoError(t, store.Save(Session{Token: "signed-token"}))

	post, err := client.Reply(context.Background(), "post-1", "Stay strong.")
	require.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.Equal(t, "Bearer signed-token", gotAuth)
}

func TestSuggestTagDegradesToNoSuggestion(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/suggest-tag", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"tag": "heartbreak"})
		})
		client, store := newTestClient(t, mux)
		require.NoError(t, store.Save(Session{Token: "signed-token"}))

		tag, ok := client.SuggestTag(context.Background(), "I still think about her every day")
		assert.True(t, ok)
		assert.Equal(t, models.TagHeartbreak, tag)
	})

	t.Run("Server Error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/suggest-tag", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Message: "Failed to suggest a tag."})
		})
		client, store := newTestClient(t, mux)
		require.NoError(t, store.Save(Session{Token: "signed-token"}))

		tag, ok := client.SuggestTag(context.Background(), "some draft")
		assert.False(t, ok)
		assert.Empty(t, tag)
	})

	t.Run("Unknown Tag", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/suggest-tag", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"tag": "rage"})
		})
		client, store := newTestClient(t, mux)
		require.NoError(t, store.Save(Session{Token: "signed-token"}))

		tag, ok := client.SuggestTag(context.Background(), "some draft")
		assert.False(t, ok)
		assert.Empty(t, tag)
	})
}

func TestSessionStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	session, err := NewSessionStore(path).Current()
	require.NoError(t, err)
	assert.Nil(t, session, "a corrupt session file reads as logged out")
}

func TestLogoutClearsSession(t *testing.T) {
	client, store := newTestClient(t, http.NewServeMux())
	require.NoError(t, store.Save(Session{Token: "signed-token"}))

	require.NoError(t, client.Logout())

	session, err := store.Current()
	require.NoError(t, err)
	assert.Nil(t, session)

	// Logging out twice is fine.
	require.NoError(t, client.Logout())
}
