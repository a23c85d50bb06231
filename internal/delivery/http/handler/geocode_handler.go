package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"zlecenia/internal/delivery/http/middleware"
	"zlecenia/internal/geocode"
	"zlecenia/internal/pkg/response"
)

type GeocodeHandler struct {
	geocoder *geocode.Geocoder
}

func NewGeocodeHandler(geocoder *geocode.Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

func (h *GeocodeHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.HandleGeocode)
}

func (h *GeocodeHandler) HandleGeocode(c fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "brak adresu do wyszukania", nil, nil)
	}

	res, err := h.geocoder.GeocodeWithFallback(c.Context(), address)
	if err != nil {
		if errors.Is(err, geocode.ErrNoMatch) {
			return middleware.NewAppError(fiber.StatusNotFound, geocode.ErrNoMatch.Error(), nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"latitude":  res.Latitude,
		"longitude": res.Longitude,
		"address":   res.Address,
	})
}
