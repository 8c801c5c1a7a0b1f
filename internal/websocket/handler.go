package websocket

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pollpay/internal/events"
	"pollpay/internal/services"
	"pollpay/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler upgrades authenticated connections and wires them into the hub.
// A connected client is always watching its own user channel (reward
// notices) and the public poll feed; it can additionally watch individual
// polls with "watch:<pollID>" / "unwatch:<pollID>" text frames.
type Handler struct {
	auth *services.AuthService
	hub  *Hub
}

func NewHandler(auth *services.AuthService, hub *Hub) *Handler {
	return &Handler{auth: auth, hub: hub}
}

func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	claims, err := h.auth.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	userID := strings.TrimSpace(claims.UserID)
	client := NewClient(conn, userID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	h.hub.Watch(client, events.ChannelPrefixUser+userID)
	h.hub.Watch(client, events.ChannelPollFeed)
	go client.WriteLoop(ctx)

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		text := string(msg)
		switch {
		case strings.HasPrefix(text, "watch:"):
			h.hub.Watch(client, events.ChannelPrefixPoll+strings.TrimPrefix(text, "watch:"))
		case strings.HasPrefix(text, "unwatch:"):
			h.hub.Unwatch(client, events.ChannelPrefixPoll+strings.TrimPrefix(text, "unwatch:"))
		}
	}

	h.hub.Unregister(client)
}
