package services

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"go.uber.org/zap"

	"github.com/mapbrew/brewfinder/internal/models"
	"github.com/mapbrew/brewfinder/internal/provider"
	"github.com/mapbrew/brewfinder/pkg/logger"
)

// fetchState tracks one fetch request through its lifecycle. Terminal
// states are not reentrant; a new fetch starts a fresh state machine.
type fetchState int

const (
	stateIdle fetchState = iota
	stateCheckingCache
	stateCheckingCredits
	stateCallingProvider
	stateFiltering
	stateCaching
	stateDelivered
	stateFailed
)

func (s fetchState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateCheckingCache:
		return "checking_cache"
	case stateCheckingCredits:
		return "checking_credits"
	case stateCallingProvider:
		return "calling_provider"
	case stateFiltering:
		return "filtering"
	case stateCaching:
		return "caching"
	case stateDelivered:
		return "delivered"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchRequest is one place-search request. Identity is captured here,
// at fetch start; a sign-out while the provider call is in flight does
// not retroactively switch whose credit was spent.
type FetchRequest struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Intent       SearchIntent
	Identity     Identity
}

// FetchResult is a delivered search outcome
type FetchResult struct {
	Records   []models.PlaceRecord
	FromCache bool
}

// FetchCoordinator orchestrates a place search: cache check, credit
// deduction, provider call, exclusion filtering and cache fill.
type FetchCoordinator struct {
	cache  *PlaceResultCache
	ledger *CreditLedger
	filter *ExclusionFilter
	client provider.SearchClient
	log    *zap.SugaredLogger
}

func NewFetchCoordinator(cache *PlaceResultCache, ledger *CreditLedger, filter *ExclusionFilter, client provider.SearchClient) *FetchCoordinator {
	return &FetchCoordinator{
		cache:  cache,
		ledger: ledger,
		filter: filter,
		client: client,
		log:    logger.GetLogger("coordinator"),
	}
}

// Fetch runs one search request to a terminal state. Cached results are
// free; a cache miss costs one credit, deducted before the provider call.
// A provider failure after deduction is reported without a refund;
// that is the product behavior, flagged for review rather than
// silently changed here.
func (c *FetchCoordinator) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	state := stateCheckingCache
	key := Fingerprint(req.Lat, req.Lng, req.RadiusMeters, req.Intent)

	if records := c.cache.Get(key); records != nil {
		state = stateDelivered
		fetchesTotal.WithLabelValues("cache_hit").Inc()
		c.log.Debugw("fetch served from cache", "fingerprint", key, "records", len(records), "state", state)
		return &FetchResult{Records: records, FromCache: true}, nil
	}

	state = stateCheckingCredits
	if err := c.ledger.Deduct(req.Identity, 1); err != nil {
		state = stateFailed
		fetchesTotal.WithLabelValues("insufficient_credits").Inc()
		c.log.Infow("fetch rejected", "identity", req.Identity, "state", state, "error", err)
		return nil, err
	}
	creditsSpentTotal.Inc()

	state = stateCallingProvider
	raw, err := c.client.NearbySearch(ctx, req.Lat, req.Lng, req.RadiusMeters, string(req.Intent))
	if err != nil {
		state = stateFailed
		providerCallsTotal.WithLabelValues("error").Inc()
		fetchesTotal.WithLabelValues("provider_error").Inc()
		c.log.Errorw("provider call failed", "fingerprint", key, "state", state, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	providerCallsTotal.WithLabelValues("ok").Inc()

	state = stateFiltering
	center := orb.Point{req.Lng, req.Lat}
	records := make([]models.PlaceRecord, 0, len(raw))
	for _, r := range raw {
		if !c.filter.Accept(r.Name, r.Types, req.Intent) {
			recordsFilteredTotal.Inc()
			continue
		}
		record := normalizeRecord(r)
		// Providers routinely return results well outside the requested
		// radius; tolerate 50% slop, drop the rest.
		if geo.Distance(center, record.Location.Point()) > float64(req.RadiusMeters)*1.5 {
			recordsFilteredTotal.Inc()
			continue
		}
		records = append(records, record)
	}

	state = stateCaching
	// An empty filtered list is cached too; the absence of results for
	// this fingerprint is worth remembering until TTL.
	c.cache.Put(key, records)

	state = stateDelivered
	fetchesTotal.WithLabelValues("delivered").Inc()
	c.log.Infow("fetch delivered", "fingerprint", key, "raw", len(raw), "accepted", len(records), "state", state)
	return &FetchResult{Records: records, FromCache: false}, nil
}

// normalizeRecord maps a raw provider record onto the domain schema
func normalizeRecord(r provider.Place) models.PlaceRecord {
	record := models.PlaceRecord{
		ID:   r.PlaceID,
		Name: r.Name,
		Location: models.Location{
			Lat: r.Geometry.Location.Lat,
			Lng: r.Geometry.Location.Lng,
		},
		Rating:      r.Rating,
		RatingCount: r.UserRatingsTotal,
		Address:     r.Vicinity,
		PriceLevel:  r.PriceLevel,
		Types:       r.Types,
	}

	if r.BusinessStatus != nil && *r.BusinessStatus != "OPERATIONAL" {
		record.IsClosed = true
	}

	for _, photo := range r.Photos {
		record.Photos = append(record.Photos, photo.PhotoReference)
	}

	return record
}
