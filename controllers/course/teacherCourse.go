package controllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/services"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates an unpublished course owned by the caller.
func CreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*courseValidator.CreateCourseRequest)

	course, err := services.CreateCourse(database.Database.Db, middleware.UserID(c), reqData.Title)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func ListTeacherCourses(c *fiber.Ctx) error {
	courses, err := services.ListOwnedCourses(database.Database.Db, middleware.UserID(c))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetTeacherCourse returns the course with its chapters, topics and
// attachments in position order.
func GetTeacherCourse(c *fiber.Ctx) error {
	course, err := services.GetOwnedCourse(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*services.CourseUpdate)

	course, err := services.UpdateCourse(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), *reqData)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func DeleteCourse(c *fiber.Ctx) error {
	if err := services.DeleteCourse(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint)); err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// PublishCourse publishes the course when it satisfies the configured policy.
func PublishCourse(c *fiber.Ctx) error {
	course, err := services.PublishCourse(database.Database.Db, config.AppConfig.Publish, middleware.UserID(c), c.Locals("courseId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

func UnpublishCourse(c *fiber.Ctx) error {
	course, err := services.UnpublishCourse(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course unpublished successfully!", course)
}

func AddAttachment(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBody").(*courseValidator.AttachmentRequest)

	attachment, err := services.AddAttachment(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), reqData.Name, reqData.URL)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attachment added successfully!", attachment)
}

func DeleteAttachment(c *fiber.Ctx) error {
	err := services.DeleteAttachment(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), c.Locals("attachmentId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attachment deleted successfully!", nil)
}
