package services

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mapbrew/brewfinder/internal/models"
	"github.com/mapbrew/brewfinder/pkg/logger"
)

const cacheShardCount = 16

// coordinatePrecision quantizes fingerprint coordinates to 4 decimal
// places, roughly 11 meters. Two searches inside the same quantum with
// the same radius and intent share one entry.
const coordinatePrecision = 1e4

type cacheEntry struct {
	records   []models.PlaceRecord
	fetchedAt time.Time
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// PlaceResultCache maps a search fingerprint to its filtered result set,
// with time-based expiry. Shards keep gets and puts on different keys
// from contending; same-key puts resolve last-write-wins.
type PlaceResultCache struct {
	shards [cacheShardCount]*cacheShard
	ttl    time.Duration
	store  CacheStore
	now    func() time.Time
	log    *zap.SugaredLogger
}

func NewPlaceResultCache(ttl time.Duration, store CacheStore) *PlaceResultCache {
	c := &PlaceResultCache{
		ttl:   ttl,
		store: store,
		now:   time.Now,
		log:   logger.GetLogger("placecache"),
	}
	for i := range c.shards {
		c.shards[i] = &cacheShard{entries: make(map[string]cacheEntry)}
	}
	return c
}

// Fingerprint derives the deterministic cache key for a search. Radius
// and intent are part of the key: keying by coordinates alone makes a
// radius change silently hit a stale entry.
func Fingerprint(lat, lng float64, radiusMeters int, intent SearchIntent) string {
	qLat := math.Round(lat*coordinatePrecision) / coordinatePrecision
	qLng := math.Round(lng*coordinatePrecision) / coordinatePrecision
	return fmt.Sprintf("%.4f,%.4f|%dm|%s", qLat, qLng, radiusMeters, intent)
}

func (c *PlaceResultCache) shard(key string) *cacheShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%cacheShardCount]
}

// Get returns the cached records for a fingerprint, or nil on a miss.
// An entry past TTL is evicted and reported as a miss, never returned.
func (c *PlaceResultCache) Get(key string) []models.PlaceRecord {
	now := c.now()
	s := c.shard(key)

	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok {
		if now.Sub(entry.fetchedAt) > c.ttl {
			delete(s.entries, key)
			s.mu.Unlock()
			cacheEvictionsTotal.Inc()
			cacheMissesTotal.Inc()
			c.deleteStored(key)
			return nil
		}
		records := touchRecords(entry.records, now)
		s.entries[key] = cacheEntry{records: records, fetchedAt: entry.fetchedAt}
		s.mu.Unlock()
		cacheHitsTotal.Inc()
		return records
	}
	s.mu.Unlock()

	if records, fetchedAt, ok := c.loadStored(key, now); ok {
		s.mu.Lock()
		s.entries[key] = cacheEntry{records: records, fetchedAt: fetchedAt}
		s.mu.Unlock()
		cacheHitsTotal.Inc()
		return records
	}

	cacheMissesTotal.Inc()
	return nil
}

// Put overwrites the entry for a fingerprint, stamping fetchedAt now.
// An empty record list is cached as-is: "no results here" is a valid
// fact until expiry.
func (c *PlaceResultCache) Put(key string, records []models.PlaceRecord) {
	now := c.now()
	records = touchRecords(records, now)

	s := c.shard(key)
	s.mu.Lock()
	s.entries[key] = cacheEntry{records: records, fetchedAt: now}
	s.mu.Unlock()

	if c.store != nil {
		payload, err := json.Marshal(records)
		if err != nil {
			c.log.Errorw("marshal cache entry", "fingerprint", key, "error", err)
			return
		}
		if err := c.store.SaveEntry(key, payload, now, now.Add(c.ttl)); err != nil {
			c.log.Warnw("persist cache entry", "fingerprint", key, "error", err)
		}
	}
}

// EvictExpired removes all entries past TTL. Safe to run concurrently
// with gets and puts; each shard is swept under its own lock.
func (c *PlaceResultCache) EvictExpired() int {
	now := c.now()
	evicted := 0

	for _, s := range c.shards {
		s.mu.Lock()
		for key, entry := range s.entries {
			if now.Sub(entry.fetchedAt) > c.ttl {
				delete(s.entries, key)
				evicted++
			}
		}
		s.mu.Unlock()
	}

	if evicted > 0 {
		cacheEvictionsTotal.Add(float64(evicted))
	}

	if c.store != nil {
		if n, err := c.store.DeleteExpired(now); err != nil {
			c.log.Warnw("sweep persisted cache", "error", err)
		} else if n > 0 {
			c.log.Debugw("swept persisted cache", "deleted", n)
		}
	}

	return evicted
}

// loadStored consults the persistence collaborator on a memory miss.
// A malformed persisted entry is discarded and treated as a miss; cache
// corruption never propagates into the fetch path.
func (c *PlaceResultCache) loadStored(key string, now time.Time) ([]models.PlaceRecord, time.Time, bool) {
	if c.store == nil {
		return nil, time.Time{}, false
	}

	payload, fetchedAt, found, err := c.store.LoadEntry(key)
	if err != nil || !found {
		if err != nil {
			c.log.Warnw("load cache entry", "fingerprint", key, "error", err)
		}
		return nil, time.Time{}, false
	}

	if now.Sub(fetchedAt) > c.ttl {
		c.deleteStored(key)
		return nil, time.Time{}, false
	}

	var records []models.PlaceRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		c.log.Warnw("corrupt cache entry discarded", "fingerprint", key, "error", err)
		c.deleteStored(key)
		return nil, time.Time{}, false
	}

	return touchRecords(records, now), fetchedAt, true
}

func (c *PlaceResultCache) deleteStored(key string) {
	if c.store == nil {
		return
	}
	if err := c.store.DeleteEntry(key); err != nil {
		c.log.Warnw("delete cache entry", "fingerprint", key, "error", err)
	}
}

// touchRecords stamps the last-access time on every record
func touchRecords(records []models.PlaceRecord, now time.Time) []models.PlaceRecord {
	touched := make([]models.PlaceRecord, len(records))
	copy(touched, records)
	for i := range touched {
		touched[i].LastAccess = now
	}
	return touched
}
