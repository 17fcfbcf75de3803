package courseValidator

import (
	"strings"

	"lms/middleware"
	"lms/services"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateChildRequest struct {
	Title string `json:"title" validate:"notblank,max=200"`
}

type ReorderRequest struct {
	List []services.PositionUpdate `json:"list" validate:"required,min=1,dive"`
}

// CreateChapter validates a new chapter title.
func CreateChapter() fiber.Handler {
	return validators.Body[CreateChildRequest]()
}

func CreatePensumTopic() fiber.Handler {
	return validators.Body[CreateChildRequest]()
}

// Reorder validates a bulk (id, position) list. Duplicate ids are rejected.
func Reorder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		seen := make(map[uint]bool, len(reqData.List))
		for _, item := range reqData.List {
			if seen[item.ID] {
				return middleware.ValidationErrorResponse(c, map[string]string{"list": "list must not repeat an id!"})
			}
			seen[item.ID] = true
		}
		c.Locals("validatedBody", reqData)
		return c.Next()
	}
}

// UpdateChapter validates the partial chapter update body. A present video
// URL must be a recognised video link.
func UpdateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.ChapterUpdate)
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
		if reqData.VideoURL != nil {
			v := strings.TrimSpace(*reqData.VideoURL)
			if v != "" && !services.IsValidVideoURL(v) {
				errors["videoUrl"] = "videoUrl must be a YouTube watch or youtu.be link!"
			}
			reqData.VideoURL = &v
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBody", reqData)
		return c.Next()
	}
}

func UpdatePensumTopic() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.PensumTopicUpdate)
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
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedBody", reqData)
		return c.Next()
	}
}
