package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/api/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.StartThread) // POST /api/chats - Start or fetch a direct thread
	chatGroup.GET("", chatHandler.ListThreads)  // GET /api/chats - List the caller's threads

	chatGroup.POST("/thread/:threadId/messages", chatHandler.SendMessage) // POST /api/chats/thread/:threadId/messages
	chatGroup.GET("/thread/:threadId/messages", chatHandler.ListMessages) // GET /api/chats/thread/:threadId/messages
	chatGroup.PUT("/thread/:threadId/read", chatHandler.MarkThreadRead)   // PUT /api/chats/thread/:threadId/read
}
