package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	FeedKey       = "feed:posts"
	UserKeyPrefix = "user:%s"
	PostKeyPrefix = "post:%s"
)

const (
	FeedTTL = 30 * time.Second
	UserTTL = 5 * time.Minute
	PostTTL = 10 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey)
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
	InvalidateFeed(ctx)
}
