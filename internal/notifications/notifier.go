// Package notifications delivers live feed events to connected websocket
// clients. Events travel through Redis pub/sub so every server instance sees
// them regardless of which instance handled the originating request.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"sync"

	"dilse/internal/middleware"
	"dilse/internal/models"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis pub/sub channel carrying feed events.
const FeedChannel = "feed:events"

// Feed event types.
const (
	EventPostCreated = "post_created"
	EventPostReacted = "post_reacted"
	EventReplyAdded  = "reply_added"
)

// FeedEvent is the payload broadcast to live feed subscribers.
type FeedEvent struct {
	Type string       `json:"type"`
	Post *models.Post `json:"post"`
}

// Notifier publishes feed events into Redis channels. Without a Redis
// client it degrades to instance-local delivery through the subscriber
// callback, which is enough for a single-server deployment.
type Notifier struct {
	rdb *redis.Client

	mu    sync.RWMutex
	local func(payload string)
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishFeed sends a feed event to every subscriber. Without Redis the
// event goes straight to this instance's subscriber callback.
func (n *Notifier) PublishFeed(ctx context.Context, event FeedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}
	if n.rdb == nil {
		n.mu.RLock()
		local := n.local
		n.mu.RUnlock()
		if local != nil {
			local(string(payload))
			middleware.FeedEventsPublished.WithLabelValues(event.Type).Inc()
		}
		return nil
	}
	if err := n.rdb.Publish(ctx, FeedChannel, payload).Err(); err != nil {
		return err
	}
	middleware.FeedEventsPublished.WithLabelValues(event.Type).Inc()
	return nil
}

// StartFeedSubscriber subscribes to the feed channel and calls onMessage
// for each incoming payload. Without Redis the callback is invoked directly
// from PublishFeed instead.
func (n *Notifier) StartFeedSubscriber(
	ctx context.Context, onMessage func(payload string),
) error {
	if n.rdb == nil {
		n.mu.Lock()
		n.local = onMessage
		n.mu.Unlock()
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in FeedSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
