package controllers

import (
	"errors"

	"lms/logger"
	"lms/middleware"
	"lms/storage"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// Store receives uploaded files. Set by main.
var Store storage.FileStore

// Upload stores the multipart "file" field under the :kind path parameter and
// returns its URL.
func Upload(c *fiber.Ctx) error {
	kind := c.Params("kind")
	if !utils.IsUploadKind(kind) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown upload kind!", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "file is required!"})
	}

	url, err := utils.SaveUploadedFile(c.UserContext(), Store, kind, file)
	var tooLarge utils.ErrUploadTooLarge
	if errors.As(err, &tooLarge) {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": tooLarge.Error()})
	}
	if err != nil {
		logger.Log.Error("upload failed", "kind", kind, "userId", middleware.UserID(c), "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload file!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully!", fiber.Map{"url": url, "name": file.Filename})
}
