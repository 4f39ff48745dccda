package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dilse/internal/models"
	"dilse/internal/notifications"
)

func feedFixture() []models.Post {
	return []models.Post{
		{ID: "post-1", Title: "Midnight thoughts", Tag: models.TagHeartbreak, Hearts: 3, Flowers: 1},
		{ID: "post-2", Title: "The letter I never sent", Tag: models.TagUnsentLove, Hearts: 7, Flowers: 2},
	}
}

// reactServer returns a test server whose react endpoint either confirms the
// reaction with a server-side count or fails with the given status.
func reactServer(t *testing.T, failStatus int, confirmed *models.Post) (*Client, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/{id}/react", func(w http.ResponseWriter, r *http.Request) {
		if failStatus != 0 {
			w.WriteHeader(failStatus)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Message: "Post not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(confirmed)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(Session{Token: "test-token", User: models.User{ID: "user-1"}}))
	return New(server.URL, store), server
}

func TestFeedReactOptimisticSuccess(t *testing.T) {
	confirmed := &models.Post{ID: "post-1", Title: "Midnight thoughts", Tag: models.TagHeartbreak, Hearts: 9, Flowers: 1}
	client, _ := reactServer(t, 0, confirmed)

	feed := NewFeed(client)
	feed.posts = feedFixture()

	err := feed.React(context.Background(), "post-1", models.ReactionHearts)
	require.NoError(t, err)

	// The server's count wins over the local optimistic bump.
	post, ok := feed.Post("post-1")
	require.True(t, ok)
	assert.Equal(t, 9, post.Hearts)
	assert.Equal(t, 1, post.Flowers)
}

func TestFeedReactRevertsOnFailure(t *testing.T) {
	client, _ := reactServer(t, http.StatusNotFound, nil)

	feed := NewFeed(client)
	feed.posts = feedFixture()

	err := feed.React(context.Background(), "post-2", models.ReactionFlowers)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	// The counter lands back on exactly the pre-reaction value.
	post, ok := feed.Post("post-2")
	require.True(t, ok)
	assert.Equal(t, 2, post.Flowers)
	assert.Equal(t, 7, post.Hearts)
}

func TestFeedReactValidation(t *testing.T) {
	client, _ := reactServer(t, 0, nil)

	feed := NewFeed(client)
	feed.posts = feedFixture()

	err := feed.React(context.Background(), "post-1", models.ReactionKind("applause"))
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	err = feed.React(context.Background(), "no-such-post", models.ReactionHearts)
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFeedConcurrentReactions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts/{id}/react", func(w http.ResponseWriter, r *http.Request) {
		// Confirm with whatever ID was hit so each post gets its own copy.
		_ = json.NewEncoder(w).Encode(models.Post{ID: r.PathValue("id"), Hearts: 100, Flowers: 100})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(Session{Token: "test-token"}))

	feed := NewFeed(New(server.URL, store))
	feed.posts = feedFixture()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		postID := "post-1"
		if i%2 == 1 {
			postID = "post-2"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, feed.React(context.Background(), postID, models.ReactionHearts))
		}()
	}
	wg.Wait()

	posts := feed.Posts()
	assert.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, 100, p.Hearts)
	}
}

func TestFeedApplyEvent(t *testing.T) {
	feed := NewFeed(nil)
	feed.posts = feedFixture()

	// A reacted event replaces the existing post in place.
	feed.ApplyEvent(notifications.FeedEvent{
		Type: notifications.EventPostReacted,
		Post: &models.Post{ID: "post-2", Title: "The letter I never sent", Hearts: 8, Flowers: 2},
	})
	post, ok := feed.Post("post-2")
	require.True(t, ok)
	assert.Equal(t, 8, post.Hearts)

	// A created event prepends the new post.
	feed.ApplyEvent(notifications.FeedEvent{
		Type: notifications.EventPostCreated,
		Post: &models.Post{ID: "post-3", Title: "New confession", Tag: models.TagHope},
	})
	posts := feed.Posts()
	require.Len(t, posts, 3)
	assert.Equal(t, "post-3", posts[0].ID)

	// An unknown event type is ignored.
	feed.ApplyEvent(notifications.FeedEvent{Type: "unknown", Post: &models.Post{ID: "post-4"}})
	assert.Len(t, feed.Posts(), 3)
}
