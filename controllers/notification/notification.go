package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/services"
	notificationValidator "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
)

// ListNotifications returns the caller's inbox, newest first.
func ListNotifications(c *fiber.Ctx) error {
	q := c.Locals("listQuery").(*notificationValidator.ListQuery)

	notifications, err := services.ListNotifications(database.Database.Db, middleware.UserID(c), q.Unread)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", notifications)
}

func UnreadCount(c *fiber.Ctx) error {
	count, err := services.UnreadCount(database.Database.Db, middleware.UserID(c))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unread count fetched successfully!", fiber.Map{"count": count})
}

func MarkRead(c *fiber.Ctx) error {
	notification, err := services.MarkNotificationRead(database.Database.Db, middleware.UserID(c), c.Locals("notificationId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read!", notification)
}

func MarkAllRead(c *fiber.Ctx) error {
	updated, err := services.MarkAllNotificationsRead(database.Database.Db, middleware.UserID(c))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications marked as read!", fiber.Map{"updated": updated})
}
