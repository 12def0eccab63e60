package controllers

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/pixora-app/pixora/internal/pkg/credits"
	"github.com/pixora-app/pixora/internal/pkg/entitlements"
	"github.com/pixora-app/pixora/internal/pkg/provider"
	"github.com/pixora-app/pixora/internal/pkg/uploader"
	"github.com/pixora-app/pixora/internal/pkg/usercontext"
)

// uploadAuthTTL bounds the validity of an issued auth triple
const uploadAuthTTL = 30 * time.Minute

// HandleGetUploadAuth issues a short-lived token/expire/signature triple the
// front-end needs for a direct-to-provider upload.
func HandleGetUploadAuth(c *fiber.Ctx) error {
	auth, err := provider.NewUploadAuthParams(providerCfg, uploadAuthTTL)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("Failed to issue upload auth: %v", err))
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue upload credentials")
	}

	return c.JSON(auth)
}

// HandleAPIUpload accepts a multipart image upload and runs it through the
// upload pipeline: validation, credit check, provider upload and the
// transactional media insert.
func HandleAPIUpload(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Could not read file")
	}
	defer file.Close()

	data := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, data); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Could not read file")
	}

	media, err := uploadPipeline.Process(c.Context(), uploader.Request{
		UserID:   userCtx.UserID,
		Plan:     entitlements.NormalizePlan(userCtx.Plan),
		FileName: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		return respondUploadError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(media)
}

// respondUploadError maps pipeline errors onto HTTP status codes
func respondUploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, credits.ErrInsufficientCredits):
		return jsonError(c, fiber.StatusPaymentRequired, "insufficient_credits", "Upload limit reached, upgrade your plan")
	case errors.Is(err, credits.ErrUserNotFound):
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Unknown user")
	case errors.Is(err, uploader.ErrFileTooLarge):
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "File exceeds the upload size limit")
	case errors.Is(err, uploader.ErrEmptyFile):
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Empty file")
	case errors.Is(err, provider.ErrInvalidRequest):
		return jsonError(c, fiber.StatusBadGateway, "provider_rejected", "The image provider rejected the upload")
	case errors.Is(err, provider.ErrServer), errors.Is(err, provider.ErrNetwork):
		fiberlog.Error(fmt.Sprintf("Provider upload failed: %v", err))
		return jsonError(c, fiber.StatusBadGateway, "provider_unavailable", "The image provider is unavailable, try again")
	default:
		// Validation errors from the sniff check carry a user-facing message
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_file", err.Error())
	}
}
