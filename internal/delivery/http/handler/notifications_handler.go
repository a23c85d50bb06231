package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"zlecenia/internal/delivery/http/dto"
	"zlecenia/internal/delivery/http/middleware"
	"zlecenia/internal/pkg/response"
	"zlecenia/internal/usecase"
)

type NotificationsHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationsHandler(uc usecase.NotificationUsecase) *NotificationsHandler {
	return &NotificationsHandler{uc: uc}
}

func (h *NotificationsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.HandleList)
	r.Post("/:id/read", h.HandleMarkRead)
}

func (h *NotificationsHandler) HandleList(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	items, err := h.uc.List(c.Context(), middleware.UserIDFromCtx(c), limit)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, dto.FromNotification(n))
	}
	return response.Success(c, fiber.StatusOK, "", out)
}

func (h *NotificationsHandler) HandleMarkRead(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	if err := h.uc.MarkRead(c.Context(), middleware.UserIDFromCtx(c), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", nil)
}
