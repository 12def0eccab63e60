package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/editor"
	"github.com/pixora-app/pixora/internal/pkg/transform"
	"github.com/pixora-app/pixora/internal/pkg/usercontext"
)

// HandleApplyTransform starts a transformation on one of the user's images.
// Re-applying the active tool toggles it off instead.
func HandleApplyTransform(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req struct {
		MediaUUID string `json:"media_uuid"`
		Tool      string `json:"tool"`
		Prompt    string `json:"prompt"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.MediaUUID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing media uuid")
	}

	// Selecting a different image replaces the session; the same image keeps
	// it so the toggle semantics apply.
	if editorManager.Snapshot(userCtx.UserID).MediaUUID != req.MediaUUID {
		mediaRepo := repository.GetGlobalFactory().GetMediaRepository()
		media, err := mediaRepo.GetByUUIDForUser(req.MediaUUID, userCtx.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return jsonError(c, fiber.StatusNotFound, "not_found", "Media not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load media")
		}
		editorManager.SelectImage(userCtx.UserID, media)
	}

	snap, err := editorManager.ApplyTool(userCtx.UserID, req.Tool, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, transform.ErrUnknownTool):
			return jsonError(c, fiber.StatusBadRequest, "unknown_tool", "Unknown transformation tool")
		case errors.Is(err, transform.ErrPromptRequired):
			return jsonError(c, fiber.StatusBadRequest, "prompt_required", "This tool needs a prompt")
		case errors.Is(err, editor.ErrNoImageSelected):
			return jsonError(c, fiber.StatusBadRequest, "no_image", "Select an image first")
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to apply tool")
		}
	}

	return c.JSON(snap)
}

// HandleClearTransform toggles the active tool off and reverts the display
// to the original image.
func HandleClearTransform(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	return c.JSON(editorManager.ClearTool(userCtx.UserID))
}

// HandleTransformStatus reports the state of the user's active
// transformation so the front-end can poll while the variant renders.
func HandleTransformStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	snap := editorManager.Snapshot(userCtx.UserID)
	if snap.State == transform.StateIdle.String() && snap.MediaUUID == "" {
		// No in-memory session (e.g. after a restart); fall back to the
		// cached status.
		if status, err := transform.LoadStatus(userCtx.UserID); err == nil {
			return c.JSON(fiber.Map{
				"state":    status.State,
				"tool":     status.Tool,
				"url":      status.URL,
				"attempts": status.Attempts,
			})
		}
	}

	return c.JSON(snap)
}
