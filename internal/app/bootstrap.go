package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"greenjobs/internal/config"
	"greenjobs/internal/delivery/http/handler"
	"greenjobs/internal/delivery/http/middleware"
	"greenjobs/internal/delivery/http/routes"
	"greenjobs/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, the fiber app and its routes, and
// starts the progress hub. The returned cleanup closes the container.
func Bootstrap(cfg config.Config, fileCfg config.FileConfig, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, fileCfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f)

	go c.Hub.Run()

	var dbPinger handler.Pinger
	if c.Pool != nil {
		dbPinger = c.Pool
	}
	registry := routes.NewRegistry(
		handler.NewHealthHandler(cfg.App.AppName, cfg.App.Environment, dbPinger),
		handler.NewMeasureHandler(c.Runner, c.Skills, c.Occupations, c.Industries),
		ws.ProgressHandler(c.Hub, c.Logger),
	)
	registry.Register(f)

	return &App{Fiber: f, Container: c}, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware()
	app.Use(errMw.Middleware())
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
