package models

import (
	"time"

	"github.com/paulmach/orb"
)

// Location is a WGS84 coordinate pair
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts the location to an orb geometry point (lng, lat order)
func (l Location) Point() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// PlaceRecord is the normalized representation of a discoverable location.
// Records are snapshots: they are cached and favorited as JSON payloads,
// not kept in a table of their own. Identity is the provider place ID;
// two records with the same ID are the same place regardless of attribute
// drift between fetches.
type PlaceRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    Location  `json:"location"`
	Rating      *float64  `json:"rating,omitempty"`
	RatingCount *int      `json:"rating_count,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Website     *string   `json:"website,omitempty"`
	PriceLevel  *int      `json:"price_level,omitempty"`
	Types       []string  `json:"types,omitempty"`
	Photos      []string  `json:"photos,omitempty"`
	IsClosed    bool      `json:"is_closed"`
	LastAccess  time.Time `json:"last_access"`
}

// RemovedPlace is a favorite eviction retained for the removal window
type RemovedPlace struct {
	Record    PlaceRecord `json:"record"`
	RemovedAt time.Time   `json:"removed_at"`
}
