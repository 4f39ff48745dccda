package client

import (
	"context"
	"sync"

	"dilse/internal/models"
	"dilse/internal/notifications"
)

// Feed is a local, concurrency-safe view of the post feed. Reactions are
// applied optimistically: the local counter bumps before the request leaves,
// and rolls back by exactly one if the server rejects it. A successful
// response replaces the whole post with the server's copy, which folds in
// reactions from other users at the same time.
type Feed struct {
	client *Client

	mu    sync.Mutex
	posts []models.Post
}

// NewFeed creates an empty feed backed by c.
func NewFeed(c *Client) *Feed {
	return &Feed{client: c}
}

// Refresh replaces the local feed with the server's current page.
func (f *Feed) Refresh(ctx context.Context) error {
	posts, err := f.client.Posts(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.posts = posts
	f.mu.Unlock()
	return nil
}

// Posts returns a snapshot of the feed.
func (f *Feed) Posts() []models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// Post returns the local copy of a single post, if present.
func (f *Feed) Post(id string) (models.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// reactionCommand captures exactly which counter was bumped and by how much,
// so a failed call reverts its own delta and nothing else, even with several
// reactions in flight for different posts.
type reactionCommand struct {
	postID string
	kind   models.ReactionKind
	delta  int
}

// React bumps the local counter, then confirms with the server. On failure
// the bump is reverted and the error returned; on success the server's copy
// of the post wins.
func (f *Feed) React(ctx context.Context, postID string, kind models.ReactionKind) error {
	if !kind.Valid() {
		return models.NewValidationError("Unknown reaction kind")
	}

	cmd := reactionCommand{postID: postID, kind: kind, delta: 1}
	if !f.apply(cmd) {
		return models.NewNotFoundError("Post")
	}

	post, err := f.client.React(ctx, postID, kind)
	if err != nil {
		f.apply(cmd.inverse())
		return err
	}

	f.ApplyPost(post)
	return nil
}

func (c reactionCommand) inverse() reactionCommand {
	c.delta = -c.delta
	return c
}

// apply shifts a reaction counter on the local copy and reports whether the
// post was found.
func (f *Feed) apply(cmd reactionCommand) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].ID != cmd.postID {
			continue
		}
		switch cmd.kind {
		case models.ReactionHearts:
			f.posts[i].Hearts += cmd.delta
		case models.ReactionFlowers:
			f.posts[i].Flowers += cmd.delta
		}
		return true
	}
	return false
}

// ApplyPost folds a server-side copy of a post into the feed: an existing
// post is replaced in place, a new one is prepended.
func (f *Feed) ApplyPost(post *models.Post) {
	if post == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].ID == post.ID {
			f.posts[i] = *post
			return
		}
	}
	f.posts = append([]models.Post{*post}, f.posts...)
}

// ApplyEvent folds a live feed event into the local feed.
func (f *Feed) ApplyEvent(event notifications.FeedEvent) {
	switch event.Type {
	case notifications.EventPostCreated, notifications.EventPostReacted, notifications.EventReplyAdded:
		f.ApplyPost(event.Post)
	}
}
