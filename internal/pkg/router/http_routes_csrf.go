package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/pixora-app/pixora/app/controllers"
	"github.com/pixora-app/pixora/internal/pkg/constants"
	"github.com/pixora-app/pixora/internal/pkg/env"
	"github.com/pixora-app/pixora/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get(constants.PublicRoute, loggedInMiddleware, controllers.HandleStart)
	group.Get(constants.LoginRoute, loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post(constants.LoginRoute, loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get(constants.StudioRoute, middleware.RequireAuth, controllers.HandleStudio)
}
