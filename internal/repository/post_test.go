package repository

import (
	"context"
	"testing"
	"time"

	"dilse/internal/cache"
	"dilse/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, nickname string) *models.User {
	t.Helper()
	user := &models.User{Nickname: nickname, Password: "hashed-password"}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func seedPost(t *testing.T, author *models.User, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:     title,
		Content:   "something I never said out loud",
		Tag:       models.TagUnsentLove,
		AuthorID:  author.ID,
		CreatedAt: createdAt,
	}
	require.NoError(t, testDB.Create(post).Error)
	return post
}

func TestPostRepository_CreateAndGetByID(t *testing.T) {
	truncateTables(t)
	repo := NewPostRepository(testDB)
	ctx := context.Background()

	author := seedUser(t, "quiet_rain")
	post := &models.Post{
		Title:    "To the one who left",
		Content:  "I kept the ticket stub from our first movie.",
		Tag:      models.TagHeartbreak,
		AuthorID: author.ID,
	}
	require.NoError(t, repo.Create(ctx, post))
	require.NotEmpty(t, post.ID)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, models.TagHeartbreak, got.Tag)
	assert.Equal(t, "quiet_rain", got.Author.Nickname)
	assert.Equal(t, 0, got.Hearts)
	assert.Equal(t, 0, got.Flowers)
	assert.NotNil(t, got.Replies)
	assert.Empty(t, got.Replies)
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	truncateTables(t)
	repo := NewPostRepository(testDB)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	truncateTables(t)
	repo := NewPostRepository(testDB)
	ctx := context.Background()

	author := seedUser(t, "paper_boats")
	base := time.Now().Add(-time.Hour)
	// Insertion order deliberately differs from creation time order.
	seedPost(t, author, "middle", base.Add(10*time.Minute))
	seedPost(t, author, "newest", base.Add(20*time.Minute))
	seedPost(t, author, "oldest", base)

	// Zero limit is the default full-feed read.
	posts, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Title)
	assert.Equal(t, "middle", posts[1].Title)
	assert.Equal(t, "oldest", posts[2].Title)
}

func TestPostRepository_ListEmptyFeed(t *testing.T) {
	truncateTables(t)
	repo := NewPostRepository(testDB)

	posts, err := repo.List(context.Background(), 50, 0)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_React(t *testing.T) {
	truncateTables(t)
	repo := NewPostRepository(testDB)
	ctx := context.Background()

	author := seedUser(t, "ember")
	post := seedPost(t, author, "a small hope", time.Now())

	updated, err := repo.React(ctx, post.ID, models.ReactionHearts)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Hearts)
	assert.Equal(t, 0, updated.Flowers)

	updated, err = repo.React(ctx, post.ID, models.ReactionHearts)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Hearts)

	updated, err = repo.React(ctx, post.ID, models.ReactionFlowers)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Hearts)
	assert.Equal(t, 1, updated.Flowers)
}

func TestPostRepository_ReactUnknownPost(t *testing.T) {
	truncateTables(t)
	repo := NewPostRepository(testDB)

	_, err := repo.React(context.Background(), "00000000-0000-0000-0000-000000000000", models.ReactionHearts)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostRepository_ReactInvalidKind(t *testing.T) {
	truncateTables(t)
	repo := NewPostRepository(testDB)

	author := seedUser(t, "drift")
	post := seedPost(t, author, "unchanged", time.Now())

	_, err := repo.React(context.Background(), post.ID, models.ReactionKind("applause"))
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	got, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hearts)
	assert.Equal(t, 0, got.Flowers)
}

func TestPostRepository_GetByIDUsesCache(t *testing.T) {
	truncateTables(t)
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	repo := NewPostRepository(testDB)
	ctx := context.Background()

	author := seedUser(t, "lantern")
	post := seedPost(t, author, "kept to myself", time.Now())

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)), "read should populate the per-post cache")

	// A direct row update bypasses invalidation, so the stale cached copy
	// keeps being served until a write goes through the repository.
	require.NoError(t, testDB.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("hearts", 42).Error)

	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hearts)

	// React invalidates the entry and returns the refreshed row.
	updated, err := repo.React(ctx, post.ID, models.ReactionHearts)
	require.NoError(t, err)
	assert.Equal(t, 43, updated.Hearts)
}

func TestReplyRepository_AppendAndOrder(t *testing.T) {
	truncateTables(t)
	posts := NewPostRepository(testDB)
	replies := NewReplyRepository(testDB)
	ctx := context.Background()

	author := seedUser(t, "willow")
	replier := seedUser(t, "sparrow")
	post := seedPost(t, author, "does anyone else", time.Now())

	base := time.Now().Add(-time.Minute)
	first := &models.Reply{PostID: post.ID, Content: "me too", AuthorID: replier.ID, CreatedAt: base}
	second := &models.Reply{PostID: post.ID, Content: "you are not alone", AuthorID: author.ID, CreatedAt: base.Add(5 * time.Second)}
	require.NoError(t, replies.Create(ctx, first))
	require.NoError(t, replies.Create(ctx, second))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 2)
	assert.Equal(t, "me too", got.Replies[0].Content)
	assert.Equal(t, "sparrow", got.Replies[0].Author.Nickname)
	assert.Equal(t, "you are not alone", got.Replies[1].Content)

	listed, err := replies.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "me too", listed[0].Content)
}
