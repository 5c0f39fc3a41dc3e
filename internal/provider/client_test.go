package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNearbySearchOK(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"location": q.Get("location"),
			"radius":   q.Get("radius"),
			"keyword":  q.Get("keyword"),
			"key":      q.Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"place_id": "p1", "name": "Heart Roasters", "types": ["cafe"],
				 "geometry": {"location": {"lat": 45.5231, "lng": -122.6765}}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	places, err := client.NearbySearch(context.Background(), 45.5231, -122.6765, 1500, "cafe")
	if err != nil {
		t.Fatalf("NearbySearch: %v", err)
	}

	if len(places) != 1 || places[0].PlaceID != "p1" {
		t.Fatalf("unexpected results: %+v", places)
	}
	if gotQuery["radius"] != "1500" {
		t.Errorf("radius = %q, want 1500", gotQuery["radius"])
	}
	if gotQuery["keyword"] != "cafe" {
		t.Errorf("keyword = %q, want cafe", gotQuery["keyword"])
	}
	if gotQuery["key"] != "test-key" {
		t.Errorf("key = %q, want test-key", gotQuery["key"])
	}
}

func TestNearbySearchZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	places, err := client.NearbySearch(context.Background(), 45.5231, -122.6765, 1500, "")
	if err != nil {
		t.Fatalf("expected ZERO_RESULTS to succeed, got %v", err)
	}
	if len(places) != 0 {
		t.Errorf("expected empty result set, got %d", len(places))
	}
}

func TestNearbySearchProviderStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "error_message": "quota"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	if _, err := client.NearbySearch(context.Background(), 45.5231, -122.6765, 1500, ""); err == nil {
		t.Fatal("expected error for non-OK provider status")
	}
}

func TestNearbySearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	if _, err := client.NearbySearch(context.Background(), 45.5231, -122.6765, 1500, ""); err == nil {
		t.Fatal("expected error for HTTP 502")
	}
}
