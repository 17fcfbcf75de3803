package progressValidator

import (
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type UpdateProgressRequest struct {
	IsCompleted *bool `json:"isCompleted" validate:"required"`
}

// UpdateProgress validates the chapter progress body.
func UpdateProgress() fiber.Handler {
	return validators.Body[UpdateProgressRequest]()
}
