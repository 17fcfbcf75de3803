package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

func ListCategories(c *fiber.Ctx) error {
	categories, err := services.ListCategories(database.Database.Db)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}

// SearchCourses lists published courses matching the filters, with the
// caller's progress on purchased ones.
func SearchCourses(c *fiber.Ctx) error {
	filter := c.Locals("searchFilter").(*services.SearchFilter)

	courses, err := services.SearchCourses(database.Database.Db, middleware.UserID(c), *filter)
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func GetChapter(c *fiber.Ctx) error {
	view, err := services.GetChapterView(database.Database.Db, middleware.UserID(c), c.Locals("courseId").(uint), c.Locals("chapterId").(uint))
	if err != nil {
		return middleware.HandleError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully!", view)
}

func GetDashboard(c *fiber.Ctx) error {
	courses := services.GetDashboardCourses(database.Database.Db, middleware.UserID(c))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", courses)
}
