package models

import (
	"time"
)

// Favorite is one favorited place for an identity. Payload carries the
// PlaceRecord snapshot taken at favorite time.
// DB: favorites
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Identity  string    `gorm:"size:255;not null;uniqueIndex:favorites_identity_place_key,priority:1" json:"identity"`
	PlaceID   string    `gorm:"size:255;not null;uniqueIndex:favorites_identity_place_key,priority:2" json:"place_id"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// FavoriteSlots tracks the favorite capacity for one identity. Capacity
// grows via reward/purchase grants and shrinks when a subscription lapses.
// DB: favorite_slots
type FavoriteSlots struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Identity  string    `gorm:"size:255;not null;uniqueIndex" json:"identity"`
	MaxSlots  int       `gorm:"not null;default:0" json:"max_slots"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FavoriteSlots) TableName() string {
	return "favorite_slots"
}

// RemovedFavorite is a place recently evicted from favorites, retained
// for a configured window so it can be restored without a new fetch.
// DB: removed_favorites
type RemovedFavorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Identity  string    `gorm:"size:255;not null;uniqueIndex:removed_identity_place_key,priority:1" json:"identity"`
	PlaceID   string    `gorm:"size:255;not null;uniqueIndex:removed_identity_place_key,priority:2" json:"place_id"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	RemovedAt time.Time `gorm:"not null;index" json:"removed_at"`
}

func (RemovedFavorite) TableName() string {
	return "removed_favorites"
}
