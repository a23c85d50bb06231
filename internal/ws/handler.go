package ws

import (
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"zlecenia/internal/mapview"
	"zlecenia/internal/pkg/jwt"
)

type Handler struct {
	hub     *Hub
	jwt     jwt.Service
	markers mapview.FetchFunc
	logger  *log.Logger
}

// NewHandler wires the hub and, when markers is non-nil, a per-connection
// viewport subscription backed by it.
func NewHandler(hub *Hub, jwtSvc jwt.Service, markers mapview.FetchFunc, logger *log.Logger) *Handler {
	return &Handler{hub: hub, jwt: jwtSvc, markers: markers, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleEventsWS upgrades the connection. An optional ?token= query parameter
// authenticates the connection for user-targeted events; anonymous
// connections still get broadcasts.
func (h *Handler) HandleEventsWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	userID := uuid.Nil
	if token := strings.TrimSpace(c.Query("token")); token != "" && h.jwt != nil {
		claims, err := h.jwt.ValidateToken(token)
		if err == nil && claims.TokenType == jwt.TokenTypeAccess {
			userID = claims.UserID
		}
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | error=%v", err)
			}
			return
		}

		client := NewClient(h.hub, conn, userID)
		if h.markers != nil {
			client.viewport = newViewportRefresher(client, h.markers, 0, h.logger)
		}
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
