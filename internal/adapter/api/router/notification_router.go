package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	notificationGroup := e.Group("/api/notifications")
	notificationGroup.Use(authMiddleware.Authenticate)

	notificationGroup.GET("", notificationHandler.List)                      // GET /api/notifications
	notificationGroup.GET("/unread-count", notificationHandler.UnreadCount)  // GET /api/notifications/unread-count
	notificationGroup.PUT("/:id/read", notificationHandler.MarkRead)         // PUT /api/notifications/:id/read
	notificationGroup.PUT("/mark-all-read", notificationHandler.MarkAllRead) // PUT /api/notifications/mark-all-read

	// Clears the message notifications tied to a single thread, used when a
	// chat screen is opened.
	notificationGroup.PUT("/messages/thread/:threadId/read", notificationHandler.MarkThreadMessagesRead)
}
