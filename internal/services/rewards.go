package services

import (
	"go.uber.org/zap"

	"github.com/mapbrew/brewfinder/pkg/logger"
)

// RewardService applies completion events from the ad-reward and
// purchase collaborators. The SDK callbacks themselves live outside
// this service; by the time a call lands here the reward is earned and
// the identity it was earned under is already fixed.
type RewardService struct {
	ledger    *CreditLedger
	favorites *FavoritesSlotManager
	log       *zap.SugaredLogger
}

func NewRewardService(ledger *CreditLedger, favorites *FavoritesSlotManager) *RewardService {
	return &RewardService{
		ledger:    ledger,
		favorites: favorites,
		log:       logger.GetLogger("rewards"),
	}
}

// RewardSource labels where a grant came from
type RewardSource string

const (
	SourceRewardedAd RewardSource = "rewarded_ad"
	SourcePurchase   RewardSource = "purchase"
)

// OnCreditsGranted applies a credit grant and returns the new balance
func (s *RewardService) OnCreditsGranted(identity Identity, amount int64, source RewardSource) (int64, error) {
	balance, err := s.ledger.Grant(identity, amount)
	if err != nil {
		return 0, err
	}
	creditsGrantedTotal.WithLabelValues(string(source)).Add(float64(amount))
	return balance, nil
}

// OnSlotsGranted raises the favorite capacity and returns the new maximum
func (s *RewardService) OnSlotsGranted(identity Identity, amount int, source RewardSource) (int, error) {
	maxSlots, err := s.favorites.GrantSlots(identity, amount)
	if err != nil {
		return 0, err
	}
	s.log.Infow("slots granted", "identity", identity, "amount", amount, "source", source)
	return maxSlots, nil
}

// OnSlotsRevoked lowers the favorite capacity, typically on subscription
// expiry. Floors at zero.
func (s *RewardService) OnSlotsRevoked(identity Identity, amount int) (int, error) {
	return s.favorites.RevokeSlots(identity, amount)
}
