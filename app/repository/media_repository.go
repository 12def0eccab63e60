package repository

import (
	"gorm.io/gorm"

	"github.com/pixora-app/pixora/app/models"
)

// mediaRepository implements the MediaRepository interface
type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository instance
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

// CreateWithCredit inserts the media row and spends one upload credit of the
// owning user inside one transaction. A crash between the two writes can
// never leave a credit spent without its media row, or the reverse.
func (r *mediaRepository) CreateWithCredit(media *models.Media) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(media).Error; err != nil {
			return err
		}
		if _, err := consumeCredit(tx, media.UserID); err != nil {
			return err
		}
		return nil
	})
}

// GetByUUID retrieves a media row by its UUID
func (r *mediaRepository) GetByUUID(uuid string) (*models.Media, error) {
	var media models.Media
	err := r.db.Where("uuid = ?", uuid).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// GetByUUIDForUser retrieves a media row scoped to its owner
func (r *mediaRepository) GetByUUIDForUser(uuid string, userID uint) (*models.Media, error) {
	var media models.Media
	err := r.db.Where("uuid = ? AND user_id = ?", uuid, userID).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// ListByUser returns all media owned by a user, newest first. A user without
// media gets an empty slice, not an error.
func (r *mediaRepository) ListByUser(userID uint) ([]models.Media, error) {
	media := make([]models.Media, 0)
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&media).Error
	return media, err
}

// DeleteForUser soft deletes a media row owned by the given user and returns
// the deleted record so callers can clean up at the provider.
func (r *mediaRepository) DeleteForUser(uuid string, userID uint) (*models.Media, error) {
	media, err := r.GetByUUIDForUser(uuid, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// CountByUser returns the number of media rows owned by a user
func (r *mediaRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Media{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
