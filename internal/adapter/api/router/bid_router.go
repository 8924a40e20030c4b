package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupBidRouter(e *echo.Echo, bidHandler *handler.BidHandler, authMiddleware *middleware.AuthMiddleware) {
	bidGroup := e.Group("/api/bids")
	bidGroup.Use(authMiddleware.Authenticate)

	bidGroup.POST("", bidHandler.PlaceBid) // POST /api/bids - Place a bid on a product
}
