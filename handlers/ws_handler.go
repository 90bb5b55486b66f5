package handlers

import (
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/anjiri1684/skill_tutor/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// ServeWs authenticates the connection with its first message, then keeps it
// registered with the hub until the client goes away. Inbound messages are ignored.
func ServeWs(c *websocketcontrib.Conn) {
	var auth wsAuthMessage
	if err := c.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"type": "error", "data": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := utils.ParseToken(auth.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"type": "error", "data": "Invalid token"})
		c.Close()
		return
	}
	raw, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"type": "error", "data": "Invalid user ID"})
		c.Close()
		return
	}

	// Written before registering; afterwards only the hub writes to c.
	if err := c.WriteJSON(fiber.Map{"type": "auth.ok", "data": fiber.Map{"user_id": userID}}); err != nil {
		c.Close()
		return
	}

	client := &websocket.Client{UserID: userID, Conn: c}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				logger.Log.Debugw("WebSocket read failed", "user_id", userID, "error", err)
			}
			return
		}
	}
}
