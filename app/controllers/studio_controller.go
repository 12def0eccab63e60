package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/entitlements"
	"github.com/pixora-app/pixora/internal/pkg/transform"
	"github.com/pixora-app/pixora/internal/pkg/usercontext"
)

// HandleStudio renders the editor page with the user's gallery, credit
// balance and any still-active transformation.
func HandleStudio(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	mediaRepo := repository.GetGlobalFactory().GetMediaRepository()
	gallery, err := mediaRepo.ListByUser(userCtx.UserID)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("Failed to load gallery for user %d: %v", userCtx.UserID, err))
		gallery = []models.Media{}
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	usageCount, usageLimit := 0, 0
	if user, err := userRepo.GetByID(userCtx.UserID); err == nil {
		usageCount, usageLimit = user.UsageCount, user.UsageLimit
	}

	status, _ := transform.LoadStatus(userCtx.UserID)

	return c.Render("studio", fiber.Map{
		"Title":           "Studio",
		"IsLoggedIn":      true,
		"Username":        userCtx.Username,
		"Plan":            userCtx.Plan,
		"Gallery":         gallery,
		"UsageCount":      usageCount,
		"UsageLimit":      usageLimit,
		"IsUnlimited":     usageLimit >= entitlements.UnlimitedUsage,
		"TransformStatus": status,
		"Tools":           transform.Tools(),
		"Flash":           flash.Get(c),
	})
}
