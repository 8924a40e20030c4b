package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/response"
	"unimarket/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startThreadRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// StartThread opens (or returns) the direct conversation with a recipient.
func (h *ChatHandler) StartThread(c echo.Context) error {
	var req startThreadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	thread, err := h.chatUseCase.StartThread(c.Request().Context(), userID, req.RecipientID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, thread)
}

// ListThreads returns the caller's conversations.
func (h *ChatHandler) ListThreads(c echo.Context) error {
	userID := c.Get("uid").(string)
	limit, offset := utils.Pagination(c, 20)

	threads, total, err := h.chatUseCase.ListThreads(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, threads, total, limit, offset)
}

// SendMessage appends a user message to a thread.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	threadID := c.Param("threadId")
	userID := c.Get("uid").(string)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, threadID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// ListMessages returns a thread's ordered history.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	threadID := c.Param("threadId")
	userID := c.Get("uid").(string)
	limit, offset := utils.Pagination(c, 50)

	messages, total, err := h.chatUseCase.ListMessages(c.Request().Context(), userID, threadID, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, messages, total, limit, offset)
}

// MarkThreadRead advances both read cursors for the thread.
func (h *ChatHandler) MarkThreadRead(c echo.Context) error {
	threadID := c.Param("threadId")
	userID := c.Get("uid").(string)

	if err := h.chatUseCase.MarkThreadRead(c.Request().Context(), userID, threadID); err != nil {
		return response.Error(c, err)
	}

	return c.NoContent(http.StatusOK)
}
