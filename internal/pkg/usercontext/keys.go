package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserContext   = "USER_CONTEXT"
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyUserPlan      = "user_plan"
	KeyFromProtected = "from_protected"
)
