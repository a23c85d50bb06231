package routes

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"zlecenia/internal/delivery/http/handler"
	v1 "zlecenia/internal/delivery/http/routes/v1"
	"zlecenia/internal/filter"
	"zlecenia/internal/geo"
	"zlecenia/internal/mapview"
	"zlecenia/internal/ws"
)

type Registry struct {
	deps   v1.Deps
	health *handler.HealthHandler

	// Usecases filled in by Register; the scheduler reuses them.
	Usecases v1.Usecases
}

func NewRegistry(deps v1.Deps) *Registry {
	return &Registry{
		deps:   deps,
		health: handler.NewHealthHandler(deps.DB, deps.Cache),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	r.Usecases = v1.Register(api.Group("/v1"), r.deps)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.deps.Hub == nil {
		return
	}
	// Live map subscription: viewport messages on the socket fetch markers
	// through the same search path the REST endpoint uses.
	markers := func(ctx context.Context, bounds geo.Bounds) ([]mapview.Marker, error) {
		return r.Usecases.Listings.MapMarkers(ctx, bounds, filter.State{})
	}
	wsHandler := ws.NewHandler(r.deps.Hub, r.Usecases.JWT, markers, r.deps.Logger)
	app.Get("/ws/events", wsHandler.HandleEventsWS)
}
