package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pixora-app/pixora/app/models"
)

// ErrInsufficientCredits is returned when a credit-gated write finds the
// user's usage count already at or above the usage limit.
var ErrInsufficientCredits = errors.New("insufficient credits")

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	// UpdatePlan sets plan and usage limit on a single user row.
	UpdatePlan(id uint, plan string, usageLimit int) (*models.User, error)
	// ConsumeCredit performs the conditional atomic increment
	// (usage_count+1 only while usage_count < usage_limit).
	ConsumeCredit(id uint) (*models.User, error)
	Count() (int64, error)
}

// MediaRepository defines the interface for media-related database operations
type MediaRepository interface {
	// CreateWithCredit inserts the media row and spends one upload credit of
	// the owning user in a single transaction: both writes or neither.
	CreateWithCredit(media *models.Media) error
	GetByUUID(uuid string) (*models.Media, error)
	GetByUUIDForUser(uuid string, userID uint) (*models.Media, error)
	ListByUser(userID uint) ([]models.Media, error)
	DeleteForUser(uuid string, userID uint) (*models.Media, error)
	CountByUser(userID uint) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User  UserRepository
	Media MediaRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:  NewUserRepository(db),
		Media: NewMediaRepository(db),
	}
}
