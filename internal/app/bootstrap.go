package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"zlecenia/internal/config"
	"zlecenia/internal/delivery/http/middleware"
	"zlecenia/internal/delivery/http/routes"
	v1 "zlecenia/internal/delivery/http/routes/v1"
	"zlecenia/internal/repository"
	"zlecenia/internal/scheduler"
)

type App struct {
	Fiber   *fiber.App
	Sweeper *scheduler.Sweeper
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	registerGlobalMiddleware(f, c)

	registry := routes.NewRegistry(v1.Deps{
		Config: c.Config,
		DB:     c.DB,
		Cache:  c.Cache,
		Hub:    c.Hub,
		Logger: c.Logger,
	})
	registry.Register(f)

	sweeper := scheduler.NewSweeper(
		repository.NewPostgresListingRepository(c.DB),
		registry.Usecases.Notifications,
		c.Logger,
	)

	return &App{Fiber: f, Sweeper: sweeper}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	app := New(container)
	if err := app.Sweeper.Start(); err != nil {
		_ = container.Close()
		return nil, nil, err
	}

	cleanup := func() error {
		app.Sweeper.Stop()
		return container.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	f.Use(middleware.NewErrorMiddleware().Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
