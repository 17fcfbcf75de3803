package courseValidator

import (
	"strings"

	"lms/middleware"
	"lms/services"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title string `json:"title" validate:"notblank,max=200"`
}

type AttachmentRequest struct {
	Name string `json:"name" validate:"notblank,max=255"`
	URL  string `json:"url" validate:"required,url"`
}

// CreateCourse validates a new course, which only needs a title.
func CreateCourse() fiber.Handler {
	return validators.Body[CreateCourseRequest]()
}

// UpdateCourse validates the partial course update body.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.CourseUpdate)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if reqData.Title != nil {
			t := strings.TrimSpace(*reqData.Title)
			if t == "" {
				errors["title"] = "title is required!"
			}
			reqData.Title = &t
		}
		if reqData.CategoryID != nil && *reqData.CategoryID == 0 {
			errors["categoryId"] = "categoryId is invalid!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBody", reqData)
		return c.Next()
	}
}

func AddAttachment() fiber.Handler {
	return validators.Body[AttachmentRequest]()
}

// SearchCourses parses the catalogue filters from the query string.
func SearchCourses() fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := new(services.SearchFilter)
		if err := c.QueryParser(filter); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		filter.Title = strings.TrimSpace(filter.Title)
		c.Locals("searchFilter", filter)
		return c.Next()
	}
}
