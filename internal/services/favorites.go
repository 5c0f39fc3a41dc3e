package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mapbrew/brewfinder/internal/models"
	"github.com/mapbrew/brewfinder/pkg/logger"
)

type favoriteSet struct {
	mu       sync.Mutex
	loaded   bool
	maxSlots int
	order    []string // place IDs in insertion order
	records  map[string]models.PlaceRecord
	removed  map[string]models.RemovedPlace
}

// FavoritesSlotManager keeps the bounded favorite set per identity,
// plus the expiring cache of recently-unfavorited places. Capacity
// checks run under the same per-identity lock as the insertion, so two
// concurrent adds cannot both squeeze into the last slot.
type FavoritesSlotManager struct {
	mu           sync.Mutex
	sets         map[Identity]*favoriteSet
	defaultSlots int
	retention    time.Duration
	store        FavoriteStore
	now          func() time.Time
	log          *zap.SugaredLogger
}

func NewFavoritesSlotManager(defaultSlots int, retention time.Duration, store FavoriteStore) *FavoritesSlotManager {
	return &FavoritesSlotManager{
		sets:         make(map[Identity]*favoriteSet),
		defaultSlots: defaultSlots,
		retention:    retention,
		store:        store,
		now:          time.Now,
		log:          logger.GetLogger("favorites"),
	}
}

func (m *FavoritesSlotManager) set(identity Identity) *favoriteSet {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sets[identity]
	if !ok {
		s = &favoriteSet{
			maxSlots: m.defaultSlots,
			records:  make(map[string]models.PlaceRecord),
			removed:  make(map[string]models.RemovedPlace),
		}
		m.sets[identity] = s
	}
	return s
}

// ensureLoaded hydrates the set from the store on first touch.
// Must hold s.mu.
func (m *FavoritesSlotManager) ensureLoaded(s *favoriteSet, identity Identity) {
	if s.loaded {
		return
	}
	s.loaded = true

	if m.store == nil {
		return
	}

	if maxSlots, found, err := m.store.LoadSlots(identity.String()); err != nil {
		m.log.Warnw("load slots", "identity", identity, "error", err)
	} else if found {
		s.maxSlots = maxSlots
	}

	if favorites, err := m.store.LoadFavorites(identity.String()); err != nil {
		m.log.Warnw("load favorites", "identity", identity, "error", err)
	} else {
		for _, record := range favorites {
			if _, ok := s.records[record.ID]; !ok {
				s.order = append(s.order, record.ID)
			}
			s.records[record.ID] = record
		}
	}

	if removed, err := m.store.LoadRemoved(identity.String()); err != nil {
		m.log.Warnw("load removed favorites", "identity", identity, "error", err)
	} else {
		for _, r := range removed {
			s.removed[r.Record.ID] = r
		}
	}
}

// Add favorites a place. Adding a record already present is a no-op
// success; adding at capacity fails with ErrCapacityExceeded.
func (m *FavoritesSlotManager) Add(identity Identity, record models.PlaceRecord) error {
	s := m.set(identity)
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ensureLoaded(s, identity)

	if _, ok := s.records[record.ID]; ok {
		return nil
	}
	if len(s.records) >= s.maxSlots {
		return ErrCapacityExceeded
	}

	s.records[record.ID] = record
	s.order = append(s.order, record.ID)

	if m.store != nil {
		if err := m.store.SaveFavorite(identity.String(), record); err != nil {
			m.log.Errorw("persist favorite", "identity", identity, "place", record.ID, "error", err)
		}
	}
	return nil
}

// Remove unfavorites a place and parks it in the recently-removed cache.
// The removal timestamp is stamped only on first insertion; removing a
// place already parked does not reset its retention window.
func (m *FavoritesSlotManager) Remove(identity Identity, placeID string) {
	s := m.set(identity)
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ensureLoaded(s, identity)

	record, ok := s.records[placeID]
	if !ok {
		return
	}

	delete(s.records, placeID)
	for i, id := range s.order {
		if id == placeID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if _, parked := s.removed[placeID]; !parked {
		removedAt := m.now()
		s.removed[placeID] = models.RemovedPlace{Record: record, RemovedAt: removedAt}
		if m.store != nil {
			if err := m.store.SaveRemoved(identity.String(), record, removedAt); err != nil {
				m.log.Errorw("persist removed favorite", "identity", identity, "place", placeID, "error", err)
			}
		}
	}

	if m.store != nil {
		if err := m.store.DeleteFavorite(identity.String(), placeID); err != nil {
			m.log.Errorw("delete favorite", "identity", identity, "place", placeID, "error", err)
		}
	}
}

// List returns the favorites in insertion order
func (m *FavoritesSlotManager) List(identity Identity) []models.PlaceRecord {
	s := m.set(identity)
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ensureLoaded(s, identity)

	out := make([]models.PlaceRecord, 0, len(s.order))
	for _, id := range s.order {
		if record, ok := s.records[id]; ok {
			out = append(out, record)
		}
	}
	return out
}

// Slots reports used and maximum favorite slots
func (m *FavoritesSlotManager) Slots(identity Identity) (used, max int) {
	s := m.set(identity)
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ensureLoaded(s, identity)
	return len(s.records), s.maxSlots
}

// GrantSlots raises the capacity by delta
func (m *FavoritesSlotManager) GrantSlots(identity Identity, delta int) (int, error) {
	if delta <= 0 {
		return 0, ErrInvalidAmount
	}
	return m.adjustSlots(identity, delta), nil
}

// RevokeSlots lowers the capacity by delta, flooring at 0. Favorites
// beyond the reduced capacity are kept; only further adds are blocked.
func (m *FavoritesSlotManager) RevokeSlots(identity Identity, delta int) (int, error) {
	if delta <= 0 {
		return 0, ErrInvalidAmount
	}
	return m.adjustSlots(identity, -delta), nil
}

func (m *FavoritesSlotManager) adjustSlots(identity Identity, delta int) int {
	s := m.set(identity)
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ensureLoaded(s, identity)

	s.maxSlots += delta
	if s.maxSlots < 0 {
		s.maxSlots = 0
	}

	if m.store != nil {
		if err := m.store.SaveSlots(identity.String(), s.maxSlots); err != nil {
			m.log.Errorw("persist slots", "identity", identity, "error", err)
		}
	}
	m.log.Infow("slots adjusted", "identity", identity, "delta", delta, "max_slots", s.maxSlots)
	return s.maxSlots
}

// RecentlyRemoved lists parked removals still inside the retention
// window, purging the expired ones on the way.
func (m *FavoritesSlotManager) RecentlyRemoved(identity Identity) []models.PlaceRecord {
	m.PurgeExpiredRemovals(identity)

	s := m.set(identity)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PlaceRecord, 0, len(s.removed))
	for _, r := range s.removed {
		out = append(out, r.Record)
	}
	return out
}

// PurgeExpiredRemovals drops parked removals older than the retention window
func (m *FavoritesSlotManager) PurgeExpiredRemovals(identity Identity) int {
	s := m.set(identity)
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ensureLoaded(s, identity)

	cutoff := m.now().Add(-m.retention)
	purged := 0
	for id, r := range s.removed {
		if r.RemovedAt.Before(cutoff) {
			delete(s.removed, id)
			purged++
		}
	}

	if purged > 0 && m.store != nil {
		if _, err := m.store.DeleteRemovedBefore(identity.String(), cutoff); err != nil {
			m.log.Warnw("purge removed favorites", "identity", identity, "error", err)
		}
	}
	return purged
}

// PurgeAllExpiredRemovals sweeps every loaded identity; wired to the
// periodic maintenance job.
func (m *FavoritesSlotManager) PurgeAllExpiredRemovals() int {
	m.mu.Lock()
	identities := make([]Identity, 0, len(m.sets))
	for identity := range m.sets {
		identities = append(identities, identity)
	}
	m.mu.Unlock()

	purged := 0
	for _, identity := range identities {
		purged += m.PurgeExpiredRemovals(identity)
	}
	return purged
}
