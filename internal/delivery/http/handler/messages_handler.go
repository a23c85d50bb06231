package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"zlecenia/internal/delivery/http/dto"
	"zlecenia/internal/delivery/http/middleware"
	"zlecenia/internal/pkg/response"
	"zlecenia/internal/usecase"
)

type MessagesHandler struct {
	uc usecase.MessageUsecase
}

func NewMessagesHandler(uc usecase.MessageUsecase) *MessagesHandler {
	return &MessagesHandler{uc: uc}
}

func (h *MessagesHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/conversations", h.HandleListConversations)
	r.Post("/conversations", h.HandleStartConversation)
	r.Get("/conversations/:id", h.HandleListMessages)
	r.Post("/conversations/:id", h.HandleSend)
	r.Get("/unread", h.HandleUnreadCount)
}

type startConversationRequest struct {
	ListingID uuid.UUID `json:"listing_id"`
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

func (h *MessagesHandler) HandleListConversations(c fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)

	convs, err := h.uc.ListConversations(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		out = append(out, dto.FromConversation(conv))
	}
	return response.Success(c, fiber.StatusOK, "", out)
}

func (h *MessagesHandler) HandleStartConversation(c fiber.Ctx) error {
	var req startConversationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	conv, err := h.uc.StartConversation(c.Context(), req.ListingID, middleware.UserIDFromCtx(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "", dto.FromConversation(conv))
}

func (h *MessagesHandler) HandleListMessages(c fiber.Ctx) error {
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	msgs, err := h.uc.ListMessages(c.Context(), convID, middleware.UserIDFromCtx(c), limit, offset)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.FromMessage(m))
	}
	return response.Success(c, fiber.StatusOK, "", out)
}

func (h *MessagesHandler) HandleSend(c fiber.Ctx) error {
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	var req sendMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	m, err := h.uc.Send(c.Context(), convID, middleware.UserIDFromCtx(c), req.Body)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "", dto.FromMessage(m))
}

func (h *MessagesHandler) HandleUnreadCount(c fiber.Ctx) error {
	n, err := h.uc.UnreadCount(c.Context(), middleware.UserIDFromCtx(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"unread": n})
}
