package uploadRoutes

import (
	controllers "lms/controllers/upload"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(router fiber.Router) {
	router.Post("/uploads/:kind", middleware.RequireRole("teacher", "admin"), controllers.Upload)
}
