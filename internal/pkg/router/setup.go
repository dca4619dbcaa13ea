package router

import (
	"github.com/gofiber/fiber/v2"

	apiv1 "github.com/ManuelReschke/PixelFoxComments/internal/api/v1"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/middleware"
)

// Router installs a group of routes on the app
type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter mounts the comment API. storage backs the rate limiter and may be nil.
func InstallRouter(app *fiber.App, deps Dependencies, storage fiber.Storage) {
	server := apiv1.NewAPIServer(deps.Repositories, deps.Emotions, deps.Activity)
	if deps.Statistics != nil {
		server.WithStatistics(deps.Statistics)
	}
	auth := middleware.APIKeyAuthMiddleware(deps.Repositories.User)

	setup(app, NewApiRouter(server, auth, storage))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
