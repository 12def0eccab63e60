package models

import (
	"time"
)

// ProviderAccount links a social login identity to a local user
type ProviderAccount struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"index;not null" json:"user_id"`
	Provider       string     `gorm:"type:varchar(50);index:idx_provider_user,unique;not null" json:"provider"`
	ProviderUserID string     `gorm:"type:varchar(191);index:idx_provider_user,unique;not null" json:"provider_user_id"`
	AccessToken    string     `gorm:"type:text" json:"-"`
	RefreshToken   string     `gorm:"type:text" json:"-"`
	ExpiresAt      *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
