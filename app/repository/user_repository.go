package repository

import (
	"gorm.io/gorm"

	"github.com/pixora-app/pixora/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdatePlan sets plan and usage limit on a single user row and returns the
// refreshed record.
func (r *userRepository) UpdatePlan(id uint, plan string, usageLimit int) (*models.User, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"plan": plan, "usage_limit": usageLimit})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// ConsumeCredit atomically increments usage_count while it is still below
// usage_limit. The guard lives inside the UPDATE so two concurrent uploads
// can never both pass a stale check.
func (r *userRepository) ConsumeCredit(id uint) (*models.User, error) {
	return consumeCredit(r.db, id)
}

// consumeCredit runs the conditional increment on the given handle so the
// media repository can reuse it inside its transaction.
func consumeCredit(tx *gorm.DB, id uint) (*models.User, error) {
	result := tx.Model(&models.User{}).
		Where("id = ? AND usage_count < usage_limit", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the user is gone or the credit budget is exhausted.
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return nil, err
		}
		return nil, ErrInsufficientCredits
	}

	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
