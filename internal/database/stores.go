package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mapbrew/brewfinder/internal/models"
)

// GORM-backed implementations of the persistence collaborators the
// services define. Rows are keyed by the identity / fingerprint strings
// the services hand in.

// CreditStore persists credit balances in credit_accounts
type CreditStore struct {
	db *DB
}

func NewCreditStore(db *DB) *CreditStore {
	return &CreditStore{db: db}
}

func (s *CreditStore) LoadBalance(identity string) (int64, bool, error) {
	var account models.CreditAccount
	err := s.db.Where("identity = ?", identity).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return account.Balance, true, nil
}

func (s *CreditStore) SaveBalance(identity string, balance int64) error {
	account := models.CreditAccount{Identity: identity, Balance: balance}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(&account).Error
}

// CacheStore persists search-cache entries in search_cache
type CacheStore struct {
	db *DB
}

func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db}
}

func (s *CacheStore) LoadEntry(fingerprint string) ([]byte, time.Time, bool, error) {
	var entry models.SearchCache
	err := s.db.Where("fingerprint = ?", fingerprint).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return []byte(entry.Payload), entry.FetchedAt, true, nil
}

func (s *CacheStore) SaveEntry(fingerprint string, payload []byte, fetchedAt, expiresAt time.Time) error {
	entry := models.SearchCache{
		Fingerprint: fingerprint,
		Payload:     string(payload),
		FetchedAt:   fetchedAt,
		ExpiresAt:   expiresAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at", "expires_at"}),
	}).Create(&entry).Error
}

func (s *CacheStore) DeleteEntry(fingerprint string) error {
	return s.db.Where("fingerprint = ?", fingerprint).Delete(&models.SearchCache{}).Error
}

func (s *CacheStore) DeleteExpired(now time.Time) (int64, error) {
	result := s.db.Where("expires_at < ?", now).Delete(&models.SearchCache{})
	return result.RowsAffected, result.Error
}

// FavoriteStore persists favorites, slot capacities and removed favorites
type FavoriteStore struct {
	db *DB
}

func NewFavoriteStore(db *DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

func (s *FavoriteStore) LoadFavorites(identity string) ([]models.PlaceRecord, error) {
	var favorites []models.Favorite
	if err := s.db.Where("identity = ?", identity).Order("created_at ASC").Find(&favorites).Error; err != nil {
		return nil, err
	}

	records := make([]models.PlaceRecord, 0, len(favorites))
	for _, favorite := range favorites {
		var record models.PlaceRecord
		if err := json.Unmarshal([]byte(favorite.Payload), &record); err != nil {
			// Malformed row: skip it rather than failing the load.
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *FavoriteStore) SaveFavorite(identity string, record models.PlaceRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal favorite: %w", err)
	}

	favorite := models.Favorite{
		Identity: identity,
		PlaceID:  record.ID,
		Payload:  string(payload),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}, {Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload"}),
	}).Create(&favorite).Error
}

func (s *FavoriteStore) DeleteFavorite(identity, placeID string) error {
	return s.db.Where("identity = ? AND place_id = ?", identity, placeID).Delete(&models.Favorite{}).Error
}

func (s *FavoriteStore) LoadSlots(identity string) (int, bool, error) {
	var slots models.FavoriteSlots
	err := s.db.Where("identity = ?", identity).First(&slots).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return slots.MaxSlots, true, nil
}

func (s *FavoriteStore) SaveSlots(identity string, maxSlots int) error {
	slots := models.FavoriteSlots{Identity: identity, MaxSlots: maxSlots}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_slots", "updated_at"}),
	}).Create(&slots).Error
}

func (s *FavoriteStore) LoadRemoved(identity string) ([]models.RemovedPlace, error) {
	var rows []models.RemovedFavorite
	if err := s.db.Where("identity = ?", identity).Find(&rows).Error; err != nil {
		return nil, err
	}

	removed := make([]models.RemovedPlace, 0, len(rows))
	for _, row := range rows {
		var record models.PlaceRecord
		if err := json.Unmarshal([]byte(row.Payload), &record); err != nil {
			continue
		}
		removed = append(removed, models.RemovedPlace{Record: record, RemovedAt: row.RemovedAt})
	}
	return removed, nil
}

func (s *FavoriteStore) SaveRemoved(identity string, record models.PlaceRecord, removedAt time.Time) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal removed favorite: %w", err)
	}

	row := models.RemovedFavorite{
		Identity:  identity,
		PlaceID:   record.ID,
		Payload:   string(payload),
		RemovedAt: removedAt,
	}
	// DoNothing keeps the original removal timestamp if the row exists;
	// re-removing a place must not reset its retention window.
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}, {Name: "place_id"}},
		DoNothing: true,
	}).Create(&row).Error
}

func (s *FavoriteStore) DeleteRemovedBefore(identity string, cutoff time.Time) (int64, error) {
	result := s.db.Where("identity = ? AND removed_at < ?", identity, cutoff).Delete(&models.RemovedFavorite{})
	return result.RowsAffected, result.Error
}
