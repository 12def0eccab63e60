package constants

// Static route constants
const (
	PublicRoute = "/"
	StudioRoute = "/studio"
	LoginRoute  = "/login"
)
