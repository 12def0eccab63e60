package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/pixora-app/pixora/internal/pkg/constants"
	"github.com/pixora-app/pixora/internal/pkg/statistics"
	"github.com/pixora-app/pixora/internal/pkg/usercontext"
)

// HandleStart renders the landing page
func HandleStart(c *fiber.Ctx) error {
	if isLoggedIn(c) {
		return c.Redirect(constants.StudioRoute, fiber.StatusSeeOther)
	}

	stats := statistics.GetStatisticsData()

	return c.Render("home", fiber.Map{
		"Title":      "Edit images with AI",
		"IsLoggedIn": false,
		"TotalMedia": stats.TotalMedia,
		"TodayMedia": stats.TodayMedia,
		"TotalUsers": stats.TotalUsers,
		"Flash":      flash.Get(c),
	})
}

// HandlePricing renders the plan comparison page
func HandlePricing(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	return c.Render("pricing", fiber.Map{
		"Title":      "Pricing",
		"IsLoggedIn": userCtx.IsLoggedIn,
		"Plan":       userCtx.Plan,
		"Flash":      flash.Get(c),
	})
}
