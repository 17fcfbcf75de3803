package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/validators"
	courseValidator "lms/validators/course"
	progressValidator "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the student facing catalogue, enrollment and
// progress routes.
func SetupCourseRoutes(router fiber.Router) {
	router.Get("/categories", controllers.ListCategories)
	router.Get("/dashboard", controllers.GetDashboard)

	courseGroup := router.Group("/courses")
	courseGroup.Get("/", courseValidator.SearchCourses(), controllers.SearchCourses)
	courseGroup.Post("/:courseId/purchase", validators.IDParams("courseId"), controllers.PurchaseCourse)
	courseGroup.Get("/:courseId/progress", validators.IDParams("courseId"), controllers.GetCourseProgress)
	courseGroup.Get("/:courseId/chapters/:chapterId", validators.IDParams("courseId", "chapterId"), controllers.GetChapter)
	courseGroup.Put("/:courseId/chapters/:chapterId/progress", validators.IDParams("courseId", "chapterId"), progressValidator.UpdateProgress(), controllers.UpdateChapterProgress)
}
