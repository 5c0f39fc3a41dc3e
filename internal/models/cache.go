package models

import (
	"time"
)

// SearchCache persists one place-search result set per fingerprint.
// The payload is the JSON-encoded []PlaceRecord; an empty array is a
// valid cached "no results here" fact until expiry.
// DB: search_cache
type SearchCache struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Fingerprint string    `gorm:"size:255;not null;uniqueIndex" json:"fingerprint"`
	Payload     string    `gorm:"type:text;not null" json:"payload"`
	FetchedAt   time.Time `gorm:"not null" json:"fetched_at"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
}

func (SearchCache) TableName() string {
	return "search_cache"
}
