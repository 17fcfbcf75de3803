package controllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/services"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateChapter appends a chapter at the end of the course.
func CreateChapter(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*courseValidator.CreateChildRequest)

	chapter, err := services.CreateChapter(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), reqData.Title)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", chapter)
}

func ReorderChapters(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*courseValidator.ReorderRequest)

	if err := services.ReorderChapters(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), reqData.List); err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters reordered successfully!", nil)
}

func UpdateChapter(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*services.ChapterUpdate)

	chapter, err := services.UpdateChapter(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), c.Locals("chapterId").(uint), *reqData)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter updated successfully!", chapter)
}

func DeleteChapter(c *fiber.Ctx) error {
	if err := services.DeleteChapter(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), c.Locals("chapterId").(uint)); err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter deleted successfully!", nil)
}

func PublishChapter(c *fiber.Ctx) error {
	chapter, err := services.PublishChapter(database.Database.Db, config.AppConfig.Publish, middleware.UserID(c), c.Locals("courseId").(uint), c.Locals("chapterId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter published successfully!", chapter)
}

// UnpublishChapter also unpublishes the course when no published chapter is
// left.
func UnpublishChapter(c *fiber.Ctx) error {
	chapter, err := services.UnpublishChapter(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), c.Locals("chapterId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter unpublished successfully!", chapter)
}

func CreatePensumTopic(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*courseValidator.CreateChildRequest)

	topic, err := services.CreatePensumTopic(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), reqData.Title)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Pensum topic created successfully!", topic)
}

func ReorderPensumTopics(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*courseValidator.ReorderRequest)

	if err := services.ReorderPensumTopics(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), reqData.List); err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pensum topics reordered successfully!", nil)
}

func UpdatePensumTopic(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*services.PensumTopicUpdate)

	topic, err := services.UpdatePensumTopic(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), c.Locals("topicId").(uint), *reqData)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pensum topic updated successfully!", topic)
}

func DeletePensumTopic(c *fiber.Ctx) error {
	if err := services.DeletePensumTopic(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), c.Locals("topicId").(uint)); err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pensum topic deleted successfully!", nil)
}
