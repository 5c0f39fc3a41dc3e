package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mapbrew/brewfinder/internal/models"
)

func testManager(slots int, retention time.Duration, clock *fakeClock) *FavoritesSlotManager {
	m := NewFavoritesSlotManager(slots, retention, nil)
	if clock != nil {
		m.now = clock.Now
	}
	return m
}

func TestFavoritesCapacity(t *testing.T) {
	m := testManager(2, 6*30*24*time.Hour, nil)
	id := GuestIdentity("device-1")
	records := testRecords("a", "b", "c")

	if err := m.Add(id, records[0]); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := m.Add(id, records[1]); err != nil {
		t.Fatalf("second add: %v", err)
	}

	err := m.Add(id, records[2])
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded on third add, got %v", err)
	}

	// The failed add leaves the set untouched.
	used, max := m.Slots(id)
	if used != 2 || max != 2 {
		t.Errorf("expected 2/2 slots, got %d/%d", used, max)
	}
}

func TestFavoritesDuplicateAddIsNoOp(t *testing.T) {
	m := testManager(2, 6*30*24*time.Hour, nil)
	id := GuestIdentity("device-1")
	record := testRecords("a")[0]

	if err := m.Add(id, record); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Add(id, record); err != nil {
		t.Fatalf("expected duplicate add to succeed as a no-op, got %v", err)
	}

	used, _ := m.Slots(id)
	if used != 1 {
		t.Errorf("expected duplicate add to not consume a slot, used=%d", used)
	}
}

func TestFavoritesListOrder(t *testing.T) {
	m := testManager(5, 6*30*24*time.Hour, nil)
	id := GuestIdentity("device-1")

	for _, r := range testRecords("c", "a", "b") {
		if err := m.Add(id, r); err != nil {
			t.Fatalf("add %s: %v", r.ID, err)
		}
	}

	list := m.List(id)
	if len(list) != 3 {
		t.Fatalf("expected 3 favorites, got %d", len(list))
	}
	want := []string{"c", "a", "b"}
	for i, r := range list {
		if r.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, r.ID, want[i])
		}
	}
}

func TestFavoritesRemoveParksRecord(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	m := testManager(2, 6*30*24*time.Hour, clock)
	id := GuestIdentity("device-1")
	record := testRecords("a")[0]

	if err := m.Add(id, record); err != nil {
		t.Fatalf("add: %v", err)
	}
	m.Remove(id, "a")

	if used, _ := m.Slots(id); used != 0 {
		t.Errorf("expected removal to free the slot, used=%d", used)
	}

	removed := m.RecentlyRemoved(id)
	if len(removed) != 1 || removed[0].ID != "a" {
		t.Fatalf("expected the removed place parked, got %v", removed)
	}

	// Removing an absent place is a silent no-op.
	m.Remove(id, "nope")
}

func TestFavoritesRemovalTimestampNotRefreshed(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	retention := 30 * 24 * time.Hour
	m := testManager(2, retention, clock)
	id := GuestIdentity("device-1")
	record := testRecords("a")[0]

	if err := m.Add(id, record); err != nil {
		t.Fatalf("add: %v", err)
	}
	m.Remove(id, "a")

	// Re-add and re-remove 29 days later. The park timestamp keeps its
	// original value, so the entry expires on the original schedule.
	clock.Advance(29 * 24 * time.Hour)
	if err := m.Add(id, record); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	m.Remove(id, "a")

	clock.Advance(2 * 24 * time.Hour)
	if got := m.RecentlyRemoved(id); len(got) != 0 {
		t.Errorf("expected the original removal timestamp to govern expiry, got %v", got)
	}
}

func TestFavoritesPurgeExpiredRemovals(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	retention := 6 * 30 * 24 * time.Hour
	m := testManager(5, retention, clock)
	id := GuestIdentity("device-1")

	for _, r := range testRecords("a", "b") {
		if err := m.Add(id, r); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	m.Remove(id, "a")

	clock.Advance(retention / 2)
	m.Remove(id, "b")

	clock.Advance(retention/2 + time.Hour)
	if purged := m.PurgeExpiredRemovals(id); purged != 1 {
		t.Fatalf("expected 1 purge, got %d", purged)
	}

	removed := m.RecentlyRemoved(id)
	if len(removed) != 1 || removed[0].ID != "b" {
		t.Errorf("expected only the newer removal kept, got %v", removed)
	}
}

func TestFavoritesSlotGrants(t *testing.T) {
	m := testManager(2, 6*30*24*time.Hour, nil)
	id := GuestIdentity("device-1")

	max, err := m.GrantSlots(id, 1)
	if err != nil || max != 3 {
		t.Fatalf("expected 3 slots after grant, got %d (%v)", max, err)
	}

	records := testRecords("a", "b", "c")
	for _, r := range records {
		if err := m.Add(id, r); err != nil {
			t.Fatalf("add %s: %v", r.ID, err)
		}
	}

	// Revoking below the used count keeps existing favorites but blocks
	// further adds.
	max, err = m.RevokeSlots(id, 2)
	if err != nil || max != 1 {
		t.Fatalf("expected 1 slot after revoke, got %d (%v)", max, err)
	}
	if got := m.List(id); len(got) != 3 {
		t.Errorf("expected existing favorites kept after revoke, got %d", len(got))
	}
	if err := m.Add(id, testRecords("d")[0]); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected add over reduced capacity to fail, got %v", err)
	}

	// Revoking past zero floors at zero.
	max, err = m.RevokeSlots(id, 10)
	if err != nil || max != 0 {
		t.Fatalf("expected floor at 0 slots, got %d (%v)", max, err)
	}
}

func TestFavoritesConcurrentAddsRespectCapacity(t *testing.T) {
	m := testManager(3, 6*30*24*time.Hour, nil)
	id := GuestIdentity("device-1")

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			record := models.PlaceRecord{ID: string(rune('a' + n)), Name: "Place"}
			if err := m.Add(id, record); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 3 {
		t.Errorf("expected exactly 3 adds to land, got %d", succeeded)
	}
	used, _ := m.Slots(id)
	if used != 3 {
		t.Errorf("expected 3 used slots, got %d", used)
	}
}
