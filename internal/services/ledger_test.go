package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerGrantAndDeduct(t *testing.T) {
	ledger := NewCreditLedger(nil)
	id := GuestIdentity("device-1")

	balance, err := ledger.Balance(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance, "unseen identity starts at zero")

	balance, err = ledger.Grant(id, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance)

	require.NoError(t, ledger.Deduct(id, 1))

	balance, err = ledger.Balance(id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance)
}

func TestLedgerNeverNegative(t *testing.T) {
	ledger := NewCreditLedger(nil)
	id := GuestIdentity("device-1")

	_, err := ledger.Grant(id, 2)
	require.NoError(t, err)

	err = ledger.Deduct(id, 3)
	assert.True(t, errors.Is(err, ErrInsufficientCredits))

	// A failed deduct leaves the balance untouched.
	balance, err := ledger.Balance(id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance)
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	ledger := NewCreditLedger(nil)
	id := GuestIdentity("device-1")

	_, err := ledger.Grant(id, 0)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	_, err = ledger.Grant(id, -5)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	err = ledger.Deduct(id, 0)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
}

func TestLedgerConcurrentDeducts(t *testing.T) {
	ledger := NewCreditLedger(nil)
	id := GuestIdentity("device-1")

	_, err := ledger.Grant(id, 10)
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Deduct(id, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly 10 of the 50 racing deducts can land.
	assert.Equal(t, 10, succeeded)

	balance, err := ledger.Balance(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestLedgerMergeIsAdditive(t *testing.T) {
	ledger := NewCreditLedger(nil)
	guest := GuestIdentity("device-1")
	auth := UserIdentity(42)

	_, err := ledger.Grant(guest, 3)
	require.NoError(t, err)
	_, err = ledger.Grant(auth, 5)
	require.NoError(t, err)

	balance, err := ledger.Merge(guest, auth)
	require.NoError(t, err)
	assert.Equal(t, int64(8), balance, "merge adds, it never takes a max or min")

	guestBalance, err := ledger.Balance(guest)
	require.NoError(t, err)
	assert.Equal(t, int64(0), guestBalance, "guest is drained by the merge")
}

func TestLedgerMergeRepeatIsHarmless(t *testing.T) {
	ledger := NewCreditLedger(nil)
	guest := GuestIdentity("device-1")
	auth := UserIdentity(42)

	_, err := ledger.Grant(guest, 3)
	require.NoError(t, err)

	balance, err := ledger.Merge(guest, auth)
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance)

	// Repeating the merge with the guest already drained moves nothing.
	balance, err = ledger.Merge(guest, auth)
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance)
}

func TestLedgerMergeSameIdentity(t *testing.T) {
	ledger := NewCreditLedger(nil)
	id := GuestIdentity("device-1")

	_, err := ledger.Grant(id, 4)
	require.NoError(t, err)

	balance, err := ledger.Merge(id, id)
	require.NoError(t, err)
	assert.Equal(t, int64(4), balance)
}

func TestLedgerConcurrentMerges(t *testing.T) {
	ledger := NewCreditLedger(nil)
	guest := GuestIdentity("device-1")
	auth := UserIdentity(42)

	_, err := ledger.Grant(guest, 7)
	require.NoError(t, err)

	// Opposite-direction merges exercise the lock ordering; neither
	// direction may deadlock or mint credits.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(flip bool) {
			defer wg.Done()
			if flip {
				_, _ = ledger.Merge(guest, auth)
			} else {
				_, _ = ledger.Merge(auth, guest)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	guestBalance, _ := ledger.Balance(guest)
	authBalance, _ := ledger.Balance(auth)
	assert.Equal(t, int64(7), guestBalance+authBalance, "total credits are conserved")
}

// fakeCreditStore records persisted balances for write-through checks
type fakeCreditStore struct {
	mu       sync.Mutex
	balances map[string]int64
}

func newFakeCreditStore() *fakeCreditStore {
	return &fakeCreditStore{balances: make(map[string]int64)}
}

func (s *fakeCreditStore) LoadBalance(identity string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[identity]
	return b, ok, nil
}

func (s *fakeCreditStore) SaveBalance(identity string, balance int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[identity] = balance
	return nil
}

func TestLedgerWriteThroughAndColdLoad(t *testing.T) {
	store := newFakeCreditStore()
	id := GuestIdentity("device-1")

	warm := NewCreditLedger(store)
	_, err := warm.Grant(id, 5)
	require.NoError(t, err)
	require.NoError(t, warm.Deduct(id, 2))

	assert.Equal(t, int64(3), store.balances[id.String()])

	// A fresh ledger hydrates the balance from the store on first touch.
	cold := NewCreditLedger(store)
	balance, err := cold.Balance(id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance)
}
