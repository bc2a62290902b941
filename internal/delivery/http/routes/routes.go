// Package routes wires the handlers onto the fiber app. Health sits at the
// root; everything else is versioned under /v1.
package routes

import (
	"github.com/gofiber/fiber/v3"

	"greenjobs/internal/delivery/http/handler"
)

type Registry struct {
	health   *handler.HealthHandler
	measure  *handler.MeasureHandler
	progress fiber.Handler
}

func NewRegistry(health *handler.HealthHandler, measure *handler.MeasureHandler, progress fiber.Handler) *Registry {
	return &Registry{health: health, measure: measure, progress: progress}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	v1 := app.Group("/v1")
	r.measure.RegisterRoutes(v1)
	if r.progress != nil {
		v1.Get("/ws/progress", r.progress)
	}
}
