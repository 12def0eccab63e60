package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixora-app/pixora/app/controllers"
	"github.com/pixora-app/pixora/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/pricing", loggedInMiddleware, controllers.HandlePricing)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}
