package services

import (
	"time"

	"github.com/mapbrew/brewfinder/internal/models"
)

// Persistence collaborators. The in-memory state owned by the services is
// authoritative; stores are write-through and consulted on cold reads.
// A nil store means memory-only operation (used by tests). Store failures
// are logged and degrade to memory-only behavior, never failing the
// calling operation.

// CreditStore persists per-identity credit balances
type CreditStore interface {
	LoadBalance(identity string) (balance int64, found bool, err error)
	SaveBalance(identity string, balance int64) error
}

// CacheStore persists search-cache entries keyed by fingerprint
type CacheStore interface {
	LoadEntry(fingerprint string) (payload []byte, fetchedAt time.Time, found bool, err error)
	SaveEntry(fingerprint string, payload []byte, fetchedAt, expiresAt time.Time) error
	DeleteEntry(fingerprint string) error
	DeleteExpired(now time.Time) (int64, error)
}

// FavoriteStore persists favorite sets, slot capacities and the
// recently-removed retention cache
type FavoriteStore interface {
	LoadFavorites(identity string) ([]models.PlaceRecord, error)
	SaveFavorite(identity string, record models.PlaceRecord) error
	DeleteFavorite(identity, placeID string) error

	LoadSlots(identity string) (maxSlots int, found bool, err error)
	SaveSlots(identity string, maxSlots int) error

	LoadRemoved(identity string) ([]models.RemovedPlace, error)
	SaveRemoved(identity string, record models.PlaceRecord, removedAt time.Time) error
	DeleteRemovedBefore(identity string, cutoff time.Time) (int64, error)
}
