package services

import (
	"testing"
)

func TestAcceptDeniedChains(t *testing.T) {
	f := DefaultExclusionFilter()

	testCases := []struct {
		name   string
		types  []string
		intent SearchIntent
		accept bool
	}{
		{"Starbucks Reserve", []string{"cafe"}, IntentCafe, false},
		{"STARBUCKS #1234", []string{"cafe"}, IntentCafe, false},
		{"Dunkin'", []string{"cafe"}, IntentCafe, false},
		{"Joe's Local Cafe", []string{"cafe"}, IntentCafe, true},
		{"Blue Bottle", []string{"cafe", "coffee_shop"}, IntentCafe, true},
		{"Hop Valley Brewing", []string{"brewery", "bar"}, IntentBrewery, true},
	}

	for _, tc := range testCases {
		if got := f.Accept(tc.name, tc.types, tc.intent); got != tc.accept {
			t.Errorf("Accept(%q, %v, %s) = %v, want %v", tc.name, tc.types, tc.intent, got, tc.accept)
		}
	}
}

func TestAcceptCategoryRules(t *testing.T) {
	f := DefaultExclusionFilter()

	// Undesired category without an allowed one: rejected.
	if f.Accept("Shell Coffee Corner", []string{"gas_station"}, IntentCafe) {
		t.Error("expected gas station to be rejected for cafe intent")
	}

	// Allowed overrides undesired when both match.
	if !f.Accept("Roadside Roasters", []string{"gas_station", "cafe"}, IntentCafe) {
		t.Error("expected allowed category to override undesired")
	}

	// Categories from another intent's undesired set do not apply.
	if !f.Accept("Night Owl Espresso", []string{"night_club", "cafe"}, IntentCafe) {
		t.Error("expected brewery-intent undesired category to be ignored for cafe intent")
	}

	if f.Accept("Corner Liquor", []string{"liquor_store"}, IntentBrewery) {
		t.Error("expected liquor store to be rejected for brewery intent")
	}
}

func TestAcceptSubstringLimitation(t *testing.T) {
	// Substring matching is deliberate: a name merely containing a
	// denylisted chain is rejected even if it is an unrelated business.
	f := DefaultExclusionFilter()

	if f.Accept("McDonald's McCafe", []string{"cafe"}, IntentCafe) {
		t.Error("expected chain substring to reject")
	}
	if f.Accept("Old MacDonald Farm Cafe", []string{"cafe"}, IntentCafe) != true {
		t.Error("MacDonald is not a denylisted substring of mcdonald")
	}
}

func TestParseIntent(t *testing.T) {
	if ParseIntent("brewery") != IntentBrewery {
		t.Error("expected brewery intent")
	}
	if ParseIntent("BREWERY") != IntentBrewery {
		t.Error("expected case-insensitive parse")
	}
	if ParseIntent("") != IntentCafe {
		t.Error("expected cafe as the default intent")
	}
	if ParseIntent("bogus") != IntentCafe {
		t.Error("expected unknown intent to fall back to cafe")
	}
}
