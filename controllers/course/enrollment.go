package controllers

import (
	"errors"

	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/services"
	progressValidator "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// Emitter notifies course owners about completions. Set by main.
var Emitter *services.Emitter

func PurchaseCourse(c *fiber.Ctx) error {
	purchase, err := services.PurchaseCourse(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course purchased successfully!", purchase)
}

// GetCourseProgress returns the caller's completion percentage. Lookup
// failures other than a missing purchase report the progress as unknown.
func GetCourseProgress(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	progress, err := services.CourseProgress(database.Database.Db, middleware.UserID(c), courseID)
	if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrUnauthenticated) {
		return middleware.HandleError(c, err)
	}
	if err != nil {
		logger.Log.Warn("progress unavailable", "courseId", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress unavailable", fiber.Map{"progress": nil})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{"progress": progress})
}

// UpdateChapterProgress marks a chapter complete or incomplete for the caller.
func UpdateChapterProgress(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*progressValidator.UpdateProgressRequest)

	progress, err := services.UpsertProgress(c.UserContext(), database.Database.Db, Emitter, middleware.UserID(c),
		c.Locals("courseId").(uint), c.Locals("chapterId").(uint), *reqData.IsCompleted)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", progress)
}
