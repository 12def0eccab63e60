package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/internal/pkg/database"
	"github.com/pixora-app/pixora/internal/pkg/session"
	"github.com/pixora-app/pixora/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes user session handling and eliminates code duplication.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth uses its own fiber session store on /auth/*; skip our app session
	// there to prevent cross-store collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	anonymous := func() error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return anonymous()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		return anonymous()
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)

	// Plan with session-first strategy; fall back to the user row once and
	// cache it for subsequent requests.
	plan := session.GetSessionValue(c, usercontext.KeyUserPlan)
	if plan == "" {
		plan = models.PLAN_FREE
		if db := database.GetDB(); db != nil {
			var user models.User
			if err := db.First(&user, userID.(uint)).Error; err == nil && user.Plan != "" {
				plan = user.Plan
			}
		}
		_ = session.SetSessionValue(c, usercontext.KeyUserPlan, plan)
	}

	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		IsLoggedIn: true,
		Plan:       plan,
	}
	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userID.(uint))
	c.Locals(usercontext.KeyUsername, username)

	return c.Next()
}
