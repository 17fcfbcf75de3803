package notificationRoutes

import (
	controllers "lms/controllers/notification"
	"lms/validators"
	notificationValidator "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(router fiber.Router) {
	notificationGroup := router.Group("/notifications")
	notificationGroup.Get("/", notificationValidator.ListNotifications(), controllers.ListNotifications)
	notificationGroup.Get("/unread-count", controllers.UnreadCount)
	notificationGroup.Patch("/read-all", controllers.MarkAllRead)
	notificationGroup.Patch("/:notificationId/read", validators.IDParams("notificationId"), controllers.MarkRead)
}
