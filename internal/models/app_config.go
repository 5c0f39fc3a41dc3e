package models

import (
	"encoding/json"
	"time"
)

// AdConfig represents rewarded-ad configuration served to the mobile client
type AdConfig struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Platform      string          `gorm:"size:20;not null" json:"platform"`
	AdNetwork     string          `gorm:"size:50;not null" json:"ad_network"`
	IsEnabled     bool            `gorm:"not null" json:"is_enabled"`
	AdUnitIDs     json.RawMessage `gorm:"type:jsonb;not null" json:"ad_unit_ids" swaggertype:"object"`
	RewardCredits int64           `gorm:"not null;default:1" json:"reward_credits"`
	RewardSlots   int             `gorm:"not null;default:0" json:"reward_slots"`
	Priority      int             `gorm:"not null" json:"priority"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AdConfig) TableName() string {
	return "ad_configs"
}

// AppVersion represents app version requirements per platform
type AppVersion struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Platform       string    `gorm:"size:20;not null" json:"platform"`
	Version        string    `gorm:"size:20;not null" json:"version"`
	MinimumVersion string    `gorm:"column:minimum_version;size:20;not null" json:"minimum_version"`
	ForceUpdate    bool      `gorm:"default:false" json:"force_update"`
	UpdateMessage  *string   `gorm:"type:text" json:"update_message,omitempty"`
	StoreURL       *string   `gorm:"size:500" json:"store_url,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AppVersion) TableName() string {
	return "app_versions"
}
