package services

import (
	"fmt"
	"strings"
	"sync"
)

// Identity is an account slot key: either the anonymous guest slot of a
// device or an authenticated user. Guest and user state stay independent
// until a sign-in/sign-out transition merges them.
type Identity string

func GuestIdentity(deviceID string) Identity {
	return Identity("guest:" + deviceID)
}

func UserIdentity(userID uint) Identity {
	return Identity(fmt.Sprintf("user:%d", userID))
}

func (i Identity) IsGuest() bool {
	return strings.HasPrefix(string(i), "guest:")
}

func (i Identity) String() string {
	return string(i)
}

// IdentityService owns auth-transition side effects. Every sign-in and
// sign-out transition folds the device's guest credits into the user
// account exactly once; repeating a transition in the same direction is
// a no-op so retried requests cannot double-merge.
type IdentityService struct {
	ledger *CreditLedger

	mu       sync.Mutex
	signedIn map[string]uint // deviceID -> userID currently signed in
}

func NewIdentityService(ledger *CreditLedger) *IdentityService {
	return &IdentityService{
		ledger:   ledger,
		signedIn: make(map[string]uint),
	}
}

// OnSignIn merges the device's guest balance into the user account.
// Returns the user balance after the merge.
func (s *IdentityService) OnSignIn(deviceID string, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.signedIn[deviceID]; ok && current == userID {
		// Same transition replayed; merge already ran.
		return s.ledger.Balance(UserIdentity(userID))
	}

	balance, err := s.ledger.Merge(GuestIdentity(deviceID), UserIdentity(userID))
	if err != nil {
		return 0, err
	}
	s.signedIn[deviceID] = userID
	return balance, nil
}

// OnSignOut runs the merge for the sign-out transition, moving any
// credits the guest slot accrued while signed in into the user account
// before the device reverts to guest identity.
func (s *IdentityService) OnSignOut(deviceID string, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.signedIn[deviceID]; !ok {
		return s.ledger.Balance(UserIdentity(userID))
	}

	balance, err := s.ledger.Merge(GuestIdentity(deviceID), UserIdentity(userID))
	if err != nil {
		return 0, err
	}
	delete(s.signedIn, deviceID)
	return balance, nil
}
