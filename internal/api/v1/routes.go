package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/middleware"
)

// RegisterHandlers mounts the v1 endpoints on router. auth resolves the API key principal.
func RegisterHandlers(router fiber.Router, s *APIServer, auth fiber.Handler) {
	router.Get("/ping", s.GetPing)
	router.Get("/statistics", s.GetStatistics)

	router.Get("/images/:image_id/comments", s.GetImageComments)
	router.Get("/images/:image_id/comments/activity", s.GetImageCommentActivity)
	router.Post("/images/:image_id/comments", auth, s.PostImageComment)

	router.Put("/comments/:comment_id", auth, middleware.RequireAPIAdmin, s.PutComment)
	router.Delete("/comments/:comment_id", auth, middleware.RequireAPIAdmin, s.DeleteComment)
	router.Put("/comments/:comment_id/emotions", auth, middleware.RequireAPIAdmin, s.PutCommentEmotions)
}
