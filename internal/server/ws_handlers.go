package server

import (
	"log"

	"dilse/internal/middleware"
	"dilse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedUpgrade gates the live feed behind the feature flag and rejects plain
// HTTP requests before the websocket handshake.
func (s *Server) FeedUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.featureFlags.Enabled("live_feed", currentUserID(c)) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Live feed"))
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}

// FeedSocketHandler handles WebSocket connections for the live feed.
func (s *Server) FeedSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveFeedSockets.Inc()
		defer middleware.ActiveFeedSockets.Dec()

		// Set by AuthRequired before the upgrade.
		userID, ok := conn.Locals("userID").(string)
		if !ok || userID == "" {
			log.Printf("feed socket: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("feed socket: failed to register user %s: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		// ReadPump blocks until the peer disconnects and unregisters the
		// client on the way out.
		client.ReadPump()
	})
}
