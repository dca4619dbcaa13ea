package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/ManuelReschke/PixelFoxComments/internal/api/v1"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/env"
)

type ApiRouter struct {
	server  *apiv1.APIServer
	auth    fiber.Handler
	storage fiber.Storage
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 120),
		Expiration: time.Minute,
		Storage:    h.storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "too_many_requests",
				"message": "Rate limit exceeded",
			})
		},
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from comments api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiv1.RegisterHandlers(v1, h.server, h.auth)
}

// NewApiRouter creates the API router. A nil storage keeps limiter state in memory.
func NewApiRouter(server *apiv1.APIServer, auth fiber.Handler, storage fiber.Storage) *ApiRouter {
	return &ApiRouter{server: server, auth: auth, storage: storage}
}
