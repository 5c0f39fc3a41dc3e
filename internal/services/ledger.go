package services

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mapbrew/brewfinder/pkg/logger"
)

type creditAccount struct {
	mu      sync.Mutex
	balance int64
	loaded  bool
}

// CreditLedger tracks the non-negative search-credit balance per
// identity. All mutations on one identity are serialized by that
// account's mutex, so concurrent deducts cannot both observe the same
// balance and both succeed.
type CreditLedger struct {
	mu       sync.Mutex
	accounts map[Identity]*creditAccount
	store    CreditStore
	log      *zap.SugaredLogger
}

func NewCreditLedger(store CreditStore) *CreditLedger {
	return &CreditLedger{
		accounts: make(map[Identity]*creditAccount),
		store:    store,
		log:      logger.GetLogger("ledger"),
	}
}

func (l *CreditLedger) account(identity Identity) *creditAccount {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[identity]
	if !ok {
		acc = &creditAccount{}
		l.accounts[identity] = acc
	}
	return acc
}

// ensureLoaded pulls the persisted balance on first touch. Must hold
// acc.mu. Unseen identities default to 0; there is no implicit grant.
func (l *CreditLedger) ensureLoaded(acc *creditAccount, identity Identity) {
	if acc.loaded {
		return
	}
	acc.loaded = true

	if l.store == nil {
		return
	}
	balance, found, err := l.store.LoadBalance(identity.String())
	if err != nil {
		l.log.Warnw("load balance", "identity", identity, "error", err)
		return
	}
	if found {
		acc.balance = balance
	}
}

func (l *CreditLedger) persist(identity Identity, balance int64) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveBalance(identity.String(), balance); err != nil {
		l.log.Errorw("persist balance", "identity", identity, "error", err)
	}
}

// Balance returns the current balance, 0 for unseen identities
func (l *CreditLedger) Balance(identity Identity) (int64, error) {
	acc := l.account(identity)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	l.ensureLoaded(acc, identity)
	return acc.balance, nil
}

// Grant increases the balance by amount. The ledger applies every call;
// grant idempotency, if needed, is the caller's concern.
func (l *CreditLedger) Grant(identity Identity, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	acc := l.account(identity)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	l.ensureLoaded(acc, identity)
	acc.balance += amount
	l.persist(identity, acc.balance)
	l.log.Infow("credits granted", "identity", identity, "amount", amount, "balance", acc.balance)
	return acc.balance, nil
}

// Deduct decrements the balance by amount, failing with
// ErrInsufficientCredits and no mutation when the balance is short.
func (l *CreditLedger) Deduct(identity Identity, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	acc := l.account(identity)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	l.ensureLoaded(acc, identity)
	if acc.balance < amount {
		return ErrInsufficientCredits
	}
	acc.balance -= amount
	l.persist(identity, acc.balance)
	return nil
}

// Merge folds the guest balance into the auth account on an identity
// transition: auth += guest, guest = 0. Additive and lossless, so a
// purchased credit can never be silently destroyed, and repeating the
// merge with the guest already drained leaves the auth balance unchanged.
func (l *CreditLedger) Merge(guest, auth Identity) (int64, error) {
	if guest == auth {
		return l.Balance(auth)
	}

	guestAcc := l.account(guest)
	authAcc := l.account(auth)

	// Deterministic lock order keeps concurrent merges deadlock-free.
	first, second := guestAcc, authAcc
	if auth < guest {
		first, second = authAcc, guestAcc
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	l.ensureLoaded(guestAcc, guest)
	l.ensureLoaded(authAcc, auth)

	if guestAcc.balance == 0 {
		return authAcc.balance, nil
	}

	moved := guestAcc.balance
	authAcc.balance += moved
	guestAcc.balance = 0
	l.persist(guest, 0)
	l.persist(auth, authAcc.balance)
	l.log.Infow("balances merged", "guest", guest, "auth", auth, "moved", moved, "balance", authAcc.balance)
	return authAcc.balance, nil
}
