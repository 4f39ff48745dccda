package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"dilse/internal/notifications"
)

const liveReadTimeout = 90 * time.Second

// LiveFeed is a websocket subscription to the server's feed events.
type LiveFeed struct {
	conn *websocket.Conn
}

// SubscribeFeed opens the live feed socket. wsURL is the ws:// or wss://
// address of the feed endpoint; the stored session token is attached as a
// query parameter since browsers cannot set headers on websocket upgrades
// and the server accepts the same shape here.
func (c *Client) SubscribeFeed(ctx context.Context, wsURL string) (*LiveFeed, error) {
	session, err := c.Sessions.Current()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionExpired
	}

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("token", session.Token)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			defer func() { _ = resp.Body.Close() }()
			return nil, fmt.Errorf("feed dial failed (%d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("feed dial failed: %w", err)
	}

	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	return &LiveFeed{conn: conn}, nil
}

// Next blocks until the server pushes the next feed event.
func (l *LiveFeed) Next() (notifications.FeedEvent, error) {
	var event notifications.FeedEvent
	if err := l.conn.SetReadDeadline(time.Now().Add(liveReadTimeout)); err != nil {
		return event, err
	}
	_, raw, err := l.conn.ReadMessage()
	if err != nil {
		return event, err
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		return event, fmt.Errorf("decode feed event: %w", err)
	}
	return event, nil
}

// Run feeds every incoming event into the local feed until the context is
// canceled or the connection drops.
func (l *LiveFeed) Run(ctx context.Context, feed *Feed) error {
	defer func() { _ = l.conn.Close() }()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = l.conn.Close()
		case <-done:
		}
	}()

	for {
		event, err := l.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		feed.ApplyEvent(event)
	}
}

// Close tears down the subscription.
func (l *LiveFeed) Close() error {
	err := l.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	if closeErr := l.conn.Close(); err == nil {
		err = closeErr
	}
	return err
}
