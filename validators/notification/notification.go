package notificationValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

type ListQuery struct {
	Unread bool `query:"unread"`
}

// ListNotifications parses the inbox filters.
func ListNotifications() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := new(ListQuery)
		if err := c.QueryParser(q); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		c.Locals("listQuery", q)
		return c.Next()
	}
}
