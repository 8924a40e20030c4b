package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/response"
)

type AdminHandler struct {
	moderationUseCase *usecase.ModerationUseCase
}

func NewAdminHandler(moderationUseCase *usecase.ModerationUseCase) *AdminHandler {
	return &AdminHandler{
		moderationUseCase: moderationUseCase,
	}
}

type suspendProductRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *AdminHandler) SuspendProduct(c echo.Context) error {
	adminID := c.Get("uid").(string)
	productID := c.Param("productId")

	var req suspendProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.moderationUseCase.SuspendProduct(c.Request().Context(), adminID, productID, req.Reason); err != nil {
		return response.Error(c, err)
	}

	return c.NoContent(http.StatusOK)
}
