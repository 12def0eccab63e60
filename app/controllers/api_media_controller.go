package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/jobqueue"
	"github.com/pixora-app/pixora/internal/pkg/usercontext"
)

// HandleListMedia returns the user's gallery, newest first
func HandleListMedia(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	mediaRepo := repository.GetGlobalFactory().GetMediaRepository()
	gallery, err := mediaRepo.ListByUser(userCtx.UserID)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("Failed to list media for user %d: %v", userCtx.UserID, err))
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load media")
	}

	return c.JSON(fiber.Map{
		"media": gallery,
		"count": len(gallery),
	})
}

// HandleDeleteMedia removes a media record owned by the user and schedules
// provider-side cleanup of the stored file.
func HandleDeleteMedia(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	uuid := c.Params("uuid")
	if uuid == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing media uuid")
	}

	mediaRepo := repository.GetGlobalFactory().GetMediaRepository()
	media, err := mediaRepo.DeleteForUser(uuid, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Media not found")
		}
		fiberlog.Error(fmt.Sprintf("Failed to delete media %s: %v", uuid, err))
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete media")
	}

	if manager := jobqueue.GetManager(); manager != nil {
		if err := manager.EnqueueProviderDelete(media); err != nil {
			fiberlog.Warn(fmt.Sprintf("Could not enqueue provider delete for media %s: %v", uuid, err))
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}
