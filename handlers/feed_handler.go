package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	hub "github.com/thekevinkun/padel-court-sub000/websocket"
)

// AdminFeedUpgrade gates the live-feed endpoint to websocket requests.
func AdminFeedUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// AdminFeed streams booking lifecycle events to a connected admin dashboard.
var AdminFeed = websocket.New(func(conn *websocket.Conn) {
	client := &hub.Client{ID: uuid.New(), Conn: conn}
	hub.Register <- client
	defer func() {
		hub.Unregister <- client
		conn.Close()
	}()

	// Reads are discarded; the feed is push-only. The loop exists to detect
	// disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
})
