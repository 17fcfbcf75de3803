package middleware

import (
	"errors"

	"lms/logger"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// HandleError writes the response for an error returned by the services layer.
func HandleError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
	case errors.Is(err, services.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Not found", nil)
	case errors.Is(err, services.ErrForbidden):
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this resource", nil)
	case errors.Is(err, services.ErrConflict):
		return JsonResponse(c, fiber.StatusConflict, false, "Already exists", nil)
	case errors.As(err, &verr):
		return JsonResponse(c, fiber.StatusBadRequest, false, verr.Error(), verr.Fields)
	}

	logger.Log.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"userId", UserID(c),
		"error", err,
	)
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Internal Error", nil)
}
