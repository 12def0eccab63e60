package credits

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/entitlements"
)

var (
	// ErrUserNotFound means the session identity no longer resolves to an account
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPlan rejects any plan transition other than the upgrade to PAID
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrInsufficientCredits blocks a gated action before any side effect occurs
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// Ledger gates credit-limited actions against a user's usage budget.
type Ledger struct {
	users repository.UserRepository
}

// NewLedger creates a ledger over the given user repository
func NewLedger(users repository.UserRepository) *Ledger {
	return &Ledger{users: users}
}

// CheckUsage reports whether the user still has upload credits left.
// False exactly when usage_count >= usage_limit.
func (l *Ledger) CheckUsage(userID uint) (bool, error) {
	user, err := l.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.HasCredits(), nil
}

// IncrementUsage spends one credit via the conditional atomic increment.
// Callers that already run inside the upload transaction must not use this;
// it exists for gated actions outside the upload pipeline.
func (l *Ledger) IncrementUsage(userID uint) (*models.User, error) {
	user, err := l.users.ConsumeCredit(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientCredits):
			return nil, ErrInsufficientCredits
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// UpdatePlan accepts only the upgrade to the paid tier. The upgrade raises
// the usage limit to the unlimited sentinel; any other target plan is
// rejected and the user row stays untouched.
func (l *Ledger) UpdatePlan(userID uint, plan string) (*models.User, error) {
	if plan != models.PLAN_PAID {
		return nil, ErrInvalidPlan
	}

	user, err := l.users.UpdatePlan(userID, models.PLAN_PAID, entitlements.UsageLimit(entitlements.PlanPaid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
