package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"greenjobs/internal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	appName string
	env     string
	db      Pinger
}

func NewHealthHandler(appName, env string, db Pinger) *HealthHandler {
	return &HealthHandler{appName: appName, env: env, db: db}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	payload := fiber.Map{
		"app":    h.appName,
		"env":    h.env,
		"status": "ok",
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			payload["database"] = "down"
		} else {
			payload["database"] = "up"
		}
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, payload)
}
