package services

import (
	"testing"
	"time"

	"github.com/mapbrew/brewfinder/internal/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeCacheStore is an in-memory CacheStore for exercising the
// write-through and cold-read paths without a database.
type fakeCacheStore struct {
	entries map[string]fakeStoredEntry
}

type fakeStoredEntry struct {
	payload   []byte
	fetchedAt time.Time
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{entries: make(map[string]fakeStoredEntry)}
}

func (s *fakeCacheStore) LoadEntry(fingerprint string) ([]byte, time.Time, bool, error) {
	e, ok := s.entries[fingerprint]
	if !ok {
		return nil, time.Time{}, false, nil
	}
	return e.payload, e.fetchedAt, true, nil
}

func (s *fakeCacheStore) SaveEntry(fingerprint string, payload []byte, fetchedAt, expiresAt time.Time) error {
	s.entries[fingerprint] = fakeStoredEntry{payload: payload, fetchedAt: fetchedAt}
	return nil
}

func (s *fakeCacheStore) DeleteEntry(fingerprint string) error {
	delete(s.entries, fingerprint)
	return nil
}

func (s *fakeCacheStore) DeleteExpired(now time.Time) (int64, error) {
	return 0, nil
}

func testRecords(ids ...string) []models.PlaceRecord {
	out := make([]models.PlaceRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.PlaceRecord{
			ID:       id,
			Name:     "Place " + id,
			Location: models.Location{Lat: 45.52, Lng: -122.68},
		})
	}
	return out
}

func TestCacheRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewPlaceResultCache(24*time.Hour, nil)
	cache.now = clock.Now

	key := Fingerprint(45.52, -122.68, 1500, IntentCafe)

	if got := cache.Get(key); got != nil {
		t.Fatalf("expected miss on empty cache, got %d records", len(got))
	}

	cache.Put(key, testRecords("a", "b"))

	got := cache.Get(key)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("unexpected record order: %s, %s", got[0].ID, got[1].ID)
	}
	if !got[0].LastAccess.Equal(clock.t) {
		t.Errorf("expected last access stamped at read time, got %v", got[0].LastAccess)
	}
}

func TestCacheExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewPlaceResultCache(24*time.Hour, nil)
	cache.now = clock.Now

	key := Fingerprint(45.52, -122.68, 1500, IntentCafe)
	cache.Put(key, testRecords("a"))

	// One second before TTL: still a hit.
	clock.Advance(24*time.Hour - time.Second)
	if got := cache.Get(key); got == nil {
		t.Fatal("expected hit just inside TTL")
	}

	// Past TTL: evicted on access, reported as a miss.
	clock.Advance(2 * time.Second)
	if got := cache.Get(key); got != nil {
		t.Fatal("expected expired entry to be a miss")
	}

	// The expired entry is gone, not resurrected on the next read.
	if got := cache.Get(key); got != nil {
		t.Fatal("expected second read after expiry to still miss")
	}
}

func TestCacheEmptyResultIsAHit(t *testing.T) {
	cache := NewPlaceResultCache(24*time.Hour, nil)
	key := Fingerprint(45.52, -122.68, 1500, IntentCafe)

	cache.Put(key, []models.PlaceRecord{})

	got := cache.Get(key)
	if got == nil {
		t.Fatal("expected cached empty result to be a hit")
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 records, got %d", len(got))
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint(45.5231, -122.6765, 1500, IntentCafe)

	// Same coordinates within the quantum collapse to one key.
	if Fingerprint(45.52312, -122.67648, 1500, IntentCafe) != base {
		t.Error("expected sub-quantum coordinate jitter to share a fingerprint")
	}

	// Radius, intent and a real coordinate change all produce new keys.
	if Fingerprint(45.5231, -122.6765, 5000, IntentCafe) == base {
		t.Error("expected radius change to change the fingerprint")
	}
	if Fingerprint(45.5231, -122.6765, 1500, IntentBrewery) == base {
		t.Error("expected intent change to change the fingerprint")
	}
	if Fingerprint(45.6231, -122.6765, 1500, IntentCafe) == base {
		t.Error("expected coordinate change to change the fingerprint")
	}
}

func TestCacheEvictExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewPlaceResultCache(time.Hour, nil)
	cache.now = clock.Now

	oldKey := Fingerprint(45.52, -122.68, 1500, IntentCafe)
	cache.Put(oldKey, testRecords("old"))

	clock.Advance(30 * time.Minute)
	freshKey := Fingerprint(45.52, -122.68, 3000, IntentCafe)
	cache.Put(freshKey, testRecords("fresh"))

	clock.Advance(45 * time.Minute)
	if evicted := cache.EvictExpired(); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if cache.Get(oldKey) != nil {
		t.Error("expected old entry evicted")
	}
	if cache.Get(freshKey) == nil {
		t.Error("expected fresh entry kept")
	}
}

func TestCacheColdReadFromStore(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	store := newFakeCacheStore()

	warm := NewPlaceResultCache(24*time.Hour, store)
	warm.now = clock.Now
	key := Fingerprint(45.52, -122.68, 1500, IntentCafe)
	warm.Put(key, testRecords("a"))

	// A fresh process with empty memory hydrates from the store.
	cold := NewPlaceResultCache(24*time.Hour, store)
	cold.now = clock.Now
	got := cold.Get(key)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected cold read to hydrate from store, got %v", got)
	}
}

func TestCacheCorruptStoredEntryIsAMiss(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	store := newFakeCacheStore()
	key := Fingerprint(45.52, -122.68, 1500, IntentCafe)
	store.entries[key] = fakeStoredEntry{payload: []byte("{not json"), fetchedAt: clock.t}

	cache := NewPlaceResultCache(24*time.Hour, store)
	cache.now = clock.Now

	if got := cache.Get(key); got != nil {
		t.Fatal("expected corrupt persisted entry to read as a miss")
	}
	if _, ok := store.entries[key]; ok {
		t.Error("expected corrupt persisted entry to be deleted")
	}
}
