package services

import (
	"strings"
)

// SearchIntent selects the category profile for a search
type SearchIntent string

const (
	IntentCafe    SearchIntent = "cafe"
	IntentBrewery SearchIntent = "brewery"
)

// ParseIntent maps a client-supplied intent string to a known intent,
// defaulting to cafe.
func ParseIntent(s string) SearchIntent {
	switch SearchIntent(strings.ToLower(s)) {
	case IntentBrewery:
		return IntentBrewery
	default:
		return IntentCafe
	}
}

// ExclusionFilter classifies raw provider records against denylists and
// allowlists. Accept is pure: no side effects, no error conditions.
type ExclusionFilter struct {
	deniedChains []string
	undesired    map[SearchIntent]map[string]struct{}
	allowed      map[SearchIntent]map[string]struct{}
}

// Known limitation: denylist matching is plain substring, not tokenized,
// so a short entry can reject an unrelated independent shop whose name
// happens to contain it. Entries are kept long enough to make that rare.
var defaultDeniedChains = []string{
	"starbucks",
	"dunkin",
	"mcdonald",
	"burger king",
	"tim hortons",
	"costa coffee",
	"pret a manger",
	"caribou coffee",
	"7-eleven",
	"circle k",
	"panera",
	"krispy kreme",
	"einstein bros",
}

func DefaultExclusionFilter() *ExclusionFilter {
	return &ExclusionFilter{
		deniedChains: defaultDeniedChains,
		undesired: map[SearchIntent]map[string]struct{}{
			IntentCafe: toSet(
				"gas_station",
				"convenience_store",
				"grocery_or_supermarket",
				"lodging",
				"meal_delivery",
				"fast_food_restaurant",
			),
			IntentBrewery: toSet(
				"liquor_store",
				"convenience_store",
				"night_club",
				"grocery_or_supermarket",
			),
		},
		allowed: map[SearchIntent]map[string]struct{}{
			IntentCafe: toSet(
				"cafe",
				"coffee_shop",
				"bakery",
			),
			IntentBrewery: toSet(
				"brewery",
				"brewpub",
				"bar",
			),
		},
	}
}

// NewExclusionFilter builds a filter with custom rule sets
func NewExclusionFilter(deniedChains []string, undesired, allowed map[SearchIntent][]string) *ExclusionFilter {
	f := &ExclusionFilter{
		deniedChains: make([]string, 0, len(deniedChains)),
		undesired:    make(map[SearchIntent]map[string]struct{}, len(undesired)),
		allowed:      make(map[SearchIntent]map[string]struct{}, len(allowed)),
	}
	for _, chain := range deniedChains {
		f.deniedChains = append(f.deniedChains, strings.ToLower(chain))
	}
	for intent, cats := range undesired {
		f.undesired[intent] = toSet(cats...)
	}
	for intent, cats := range allowed {
		f.allowed[intent] = toSet(cats...)
	}
	return f
}

// Accept reports whether a record survives the exclusion rules.
// A record is rejected when its name contains a denylisted chain
// substring, or when its categories intersect the intent's undesired set
// without also intersecting the allowed set (allowed overrides undesired).
func (f *ExclusionFilter) Accept(name string, types []string, intent SearchIntent) bool {
	lowered := strings.ToLower(name)
	for _, chain := range f.deniedChains {
		if strings.Contains(lowered, chain) {
			return false
		}
	}

	if intersects(types, f.undesired[intent]) && !intersects(types, f.allowed[intent]) {
		return false
	}

	return true
}

func intersects(types []string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, t := range types {
		if _, ok := set[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
