package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"zlecenia/internal/delivery/http/middleware"
	"zlecenia/internal/pkg/response"
	"zlecenia/internal/usecase"
)

type BookmarksHandler struct {
	uc usecase.BookmarkUsecase
}

func NewBookmarksHandler(uc usecase.BookmarkUsecase) *BookmarksHandler {
	return &BookmarksHandler{uc: uc}
}

func (h *BookmarksHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.HandleList)
	r.Put("/:listingId", h.HandleAdd)
	r.Delete("/:listingId", h.HandleRemove)
}

// Guests identify themselves with the X-Device-ID header; authenticated
// requests additionally mirror writes to the account.
func (h *BookmarksHandler) HandleList(c fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)
	deviceID := c.Get("X-Device-ID")

	out, err := h.uc.List(c.Context(), userID, deviceID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", out)
}

func (h *BookmarksHandler) HandleAdd(c fiber.Ctx) error {
	return h.toggle(c, true)
}

func (h *BookmarksHandler) HandleRemove(c fiber.Ctx) error {
	return h.toggle(c, false)
}

func (h *BookmarksHandler) toggle(c fiber.Ctx, on bool) error {
	listingID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	userID := middleware.UserIDFromCtx(c)
	deviceID := c.Get("X-Device-ID")

	if err := h.uc.Toggle(c.Context(), userID, deviceID, listingID, on); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"listing_id": listingID, "bookmarked": on})
}
