package handler

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"zlecenia/internal/delivery/http/dto"
	"zlecenia/internal/delivery/http/middleware"
	"zlecenia/internal/filter"
	"zlecenia/internal/geo"
	"zlecenia/internal/pkg/response"
	"zlecenia/internal/usecase"
)

type ListingsHandler struct {
	uc usecase.ListingSearchUsecase
}

func NewListingsHandler(uc usecase.ListingSearchUsecase) *ListingsHandler {
	return &ListingsHandler{uc: uc}
}

func (h *ListingsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.HandleSearch)
	r.Get("/markers", h.HandleMarkers)
	r.Get("/:id", h.HandleGetListing)
}

// HandleSearch serves the paginated card list. Filters arrive as the shared
// comma-separated query-parameter encoding.
func (h *ListingsHandler) HandleSearch(c fiber.Ctx) error {
	filters := filter.DecodeQuery(queryValues(c))

	limit, err := parseQueryIntStrict(c, "limit", usecase.PageIncrement)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	res, err := h.uc.Search(c.Context(), usecase.SearchParams{
		Filters: filters,
		Sort:    c.Query("sort"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "", dto.ListingPageResponse{
		Items: dto.FromListings(res.Listings),
		Total: res.Total,
	})
}

// HandleMarkers serves the viewport subset as map markers. All four bounds
// parameters are required.
func (h *ListingsHandler) HandleMarkers(c fiber.Ctx) error {
	bounds, err := parseBounds(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "nieprawidłowe granice mapy", nil, err)
	}

	filters := filter.DecodeQuery(queryValues(c))
	markers, err := h.uc.MapMarkers(c.Context(), bounds, filters)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", markers)
}

func (h *ListingsHandler) HandleGetListing(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	}

	l, err := h.uc.GetListing(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", dto.FromListing(l))
}

func parseBounds(c fiber.Ctx) (geo.Bounds, error) {
	var b geo.Bounds
	var err error
	if b.North, err = strconv.ParseFloat(c.Query("north"), 64); err != nil {
		return geo.Bounds{}, err
	}
	if b.South, err = strconv.ParseFloat(c.Query("south"), 64); err != nil {
		return geo.Bounds{}, err
	}
	if b.East, err = strconv.ParseFloat(c.Query("east"), 64); err != nil {
		return geo.Bounds{}, err
	}
	if b.West, err = strconv.ParseFloat(c.Query("west"), 64); err != nil {
		return geo.Bounds{}, err
	}
	if b.North < b.South {
		return geo.Bounds{}, errors.New("north below south")
	}
	return b, nil
}

func queryValues(c fiber.Ctx) url.Values {
	v := url.Values{}
	for key, val := range c.Queries() {
		v.Set(key, val)
	}
	return v
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
