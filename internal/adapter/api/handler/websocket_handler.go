package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "unimarket/internal/infrastructure/websocket"
	"unimarket/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	manager *ws.Manager
}

func NewWebSocketHandler(manager *ws.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
	}
}

// Connect upgrades the request and starts the read/write pumps for the
// authenticated user. A newer connection from the same user replaces the
// older one.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	userID := c.Get("uid").(string)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed for user %s: %v", userID, err)
		return err
	}

	client := ws.NewClient(userID, conn)
	h.manager.Register(client)

	go client.WritePump()
	go client.ReadPump(h.manager)

	return nil
}
