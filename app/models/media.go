package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MEDIA_TYPE_IMAGE = "IMAGE"

// Media describes one uploaded image asset and where the provider stores it.
// Rows are immutable after creation; edits are expressed as URL
// transformations, never as row mutations.
type Media struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UUID        string `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	URL         string `gorm:"type:varchar(512);not null" json:"url"`
	Type        string `gorm:"type:varchar(20);default:'IMAGE'" json:"type"`
	Width       int    `gorm:"type:int" json:"width"`
	Height      int    `gorm:"type:int" json:"height"`
	Size        int64  `gorm:"type:bigint" json:"size"`
	ProviderKey string `gorm:"type:varchar(255)" json:"provider_key"`
	// optional EXIF capture
	CameraModel *string        `gorm:"type:varchar(255)" json:"camera_model,omitempty"`
	TakenAt     *time.Time     `gorm:"type:datetime" json:"taken_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when none was provided
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == "" {
		m.UUID = uuid.New().String()
	}
	if m.Type == "" {
		m.Type = MEDIA_TYPE_IMAGE
	}
	return nil
}

// FindMediaByUUID looks a media row up by its UUID
func FindMediaByUUID(db *gorm.DB, uuid string) (*Media, error) {
	var media Media
	result := db.Where("uuid = ?", uuid).First(&media)
	return &media, result.Error
}
