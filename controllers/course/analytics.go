package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// GetAnalytics reports sales and revenue across the caller's courses.
func GetAnalytics(c *fiber.Ctx) error {
	analytics, err := services.GetAnalytics(database.Database.Db, middleware.UserID(c), time.Now())
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", analytics)
}
