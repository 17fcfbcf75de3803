package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/validators"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupTeacherRoutes sets up course authoring routes for teachers.
func SetupTeacherRoutes(router fiber.Router) {
	teacherGroup := router.Group("/teacher", middleware.RequireRole("teacher", "admin"))
	teacherGroup.Get("/analytics", controllers.GetAnalytics)

	// Course CRUD
	teacherGroup.Post("/courses", courseValidator.CreateCourse(), controllers.CreateCourse)
	teacherGroup.Get("/courses", controllers.ListTeacherCourses)

	course := validators.IDParams("courseId")
	teacherGroup.Get("/courses/:courseId", course, controllers.GetTeacherCourse)
	teacherGroup.Patch("/courses/:courseId", course, courseValidator.UpdateCourse(), controllers.UpdateCourse)
	teacherGroup.Delete("/courses/:courseId", course, controllers.DeleteCourse)
	teacherGroup.Patch("/courses/:courseId/publish", course, controllers.PublishCourse)
	teacherGroup.Patch("/courses/:courseId/unpublish", course, controllers.UnpublishCourse)

	// Attachments
	teacherGroup.Post("/courses/:courseId/attachments", course, courseValidator.AddAttachment(), controllers.AddAttachment)
	teacherGroup.Delete("/courses/:courseId/attachments/:attachmentId", validators.IDParams("courseId", "attachmentId"), controllers.DeleteAttachment)

	// Chapters
	chapter := validators.IDParams("courseId", "chapterId")
	teacherGroup.Post("/courses/:courseId/chapters", course, courseValidator.CreateChapter(), controllers.CreateChapter)
	teacherGroup.Put("/courses/:courseId/chapters/reorder", course, courseValidator.Reorder(), controllers.ReorderChapters)
	teacherGroup.Patch("/courses/:courseId/chapters/:chapterId", chapter, courseValidator.UpdateChapter(), controllers.UpdateChapter)
	teacherGroup.Delete("/courses/:courseId/chapters/:chapterId", chapter, controllers.DeleteChapter)
	teacherGroup.Patch("/courses/:courseId/chapters/:chapterId/publish", chapter, controllers.PublishChapter)
	teacherGroup.Patch("/courses/:courseId/chapters/:chapterId/unpublish", chapter, controllers.UnpublishChapter)

	// Pensum topics
	topic := validators.IDParams("courseId", "topicId")
	teacherGroup.Post("/courses/:courseId/pensum-topics", course, courseValidator.CreatePensumTopic(), controllers.CreatePensumTopic)
	teacherGroup.Put("/courses/:courseId/pensum-topics/reorder", course, courseValidator.Reorder(), controllers.ReorderPensumTopics)
	teacherGroup.Patch("/courses/:courseId/pensum-topics/:topicId", topic, courseValidator.UpdatePensumTopic(), controllers.UpdatePensumTopic)
	teacherGroup.Delete("/courses/:courseId/pensum-topics/:topicId", topic, controllers.DeletePensumTopic)
}
