package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/pixora-app/pixora/app/controllers"
	"github.com/pixora-app/pixora/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes, all session-authenticated
	v1 := api.Group("/v1", middleware.RequireAPISessionAuth)

	v1.Get("/upload/auth", controllers.HandleGetUploadAuth)
	v1.Post("/upload", controllers.HandleAPIUpload)

	v1.Get("/media", controllers.HandleListMedia)
	v1.Delete("/media/:uuid", controllers.HandleDeleteMedia)

	v1.Get("/user/usage", controllers.HandleGetUserUsage)
	v1.Post("/user/plan", controllers.HandleUpdateUserPlan)

	v1.Post("/transform", controllers.HandleApplyTransform)
	v1.Delete("/transform", controllers.HandleClearTransform)
	v1.Get("/transform/status", controllers.HandleTransformStatus)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
