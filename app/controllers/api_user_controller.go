package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/credits"
	"github.com/pixora-app/pixora/internal/pkg/session"
	"github.com/pixora-app/pixora/internal/pkg/usercontext"
)

// HandleGetUserUsage returns the user's credit balance
func HandleGetUserUsage(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	ledger := credits.NewLedger(userRepo)

	hasCredits, err := ledger.CheckUsage(userCtx.UserID)
	if err != nil {
		if errors.Is(err, credits.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		fiberlog.Error(fmt.Sprintf("Failed to check usage for user %d: %v", userCtx.UserID, err))
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load usage")
	}

	user, err := userRepo.GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load usage")
	}

	return c.JSON(fiber.Map{
		"usage_count": user.UsageCount,
		"usage_limit": user.UsageLimit,
		"has_credits": hasCredits,
		"plan":        user.Plan,
	})
}

// HandleUpdateUserPlan upgrades the user to the paid plan. Any other target
// plan is rejected; downgrades do not exist.
func HandleUpdateUserPlan(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	ledger := credits.NewLedger(repository.GetGlobalFactory().GetUserRepository())
	user, err := ledger.UpdatePlan(userCtx.UserID, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, credits.ErrInvalidPlan):
			return jsonError(c, fiber.StatusBadRequest, "invalid_plan", "Only the upgrade to PAID is supported")
		case errors.Is(err, credits.ErrUserNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		default:
			fiberlog.Error(fmt.Sprintf("Failed to update plan for user %d: %v", userCtx.UserID, err))
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update plan")
		}
	}

	// Refresh the cached plan so the next request sees the upgrade
	_ = session.SetSessionValue(c, usercontext.KeyUserPlan, models.PLAN_PAID)

	return c.JSON(fiber.Map{
		"plan":        user.Plan,
		"usage_count": user.UsageCount,
		"usage_limit": user.UsageLimit,
	})
}
