package entitlements

import "strings"

type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPaid Plan = "PAID"
)

// UnlimitedUsage is the sentinel usage limit assigned on upgrade to the paid
// tier. Effectively unlimited; usage_count stays far below it in practice.
const UnlimitedUsage = 1<<31 - 1

const freeUsageLimit = 10

// NormalizePlan maps arbitrary input to a known plan, defaulting to FREE.
func NormalizePlan(plan string) Plan {
	switch strings.ToUpper(strings.TrimSpace(plan)) {
	case string(PlanPaid):
		return PlanPaid
	default:
		return PlanFree
	}
}

// UsageLimit returns the upload credit budget granted by a plan.
func UsageLimit(plan Plan) int {
	switch plan {
	case PlanPaid:
		return UnlimitedUsage
	default:
		return freeUsageLimit
	}
}

// MaxUploadBytes returns the per-file upload ceiling for a given plan
func MaxUploadBytes(plan Plan) int64 {
	switch plan {
	case PlanPaid:
		return 100 * 1024 * 1024 // 100 MB
	default:
		return 20 * 1024 * 1024 // 20 MB
	}
}
