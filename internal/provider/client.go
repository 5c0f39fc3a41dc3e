package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mapbrew/brewfinder/pkg/logger"
)

// SearchClient is the external place-search collaborator. The coordinator
// depends on this interface only; tests substitute a fake.
type SearchClient interface {
	NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]Place, error)
}

// Client calls a Google-Places-style nearby-search endpoint
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NearbySearch performs one paid nearby-search call
func (c *Client) NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]Place, error) {
	log := logger.GetLogger("provider")

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	if keyword != "" {
		params.Set("keyword", keyword)
	}
	params.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/nearbysearch/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nearby search: unexpected status %d", resp.StatusCode)
	}

	var body NearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// ZERO_RESULTS is a valid, cacheable outcome
	switch body.Status {
	case "OK", "ZERO_RESULTS":
	default:
		log.Warnw("provider rejected search", "status", body.Status, "message", body.ErrorMessage)
		return nil, fmt.Errorf("nearby search: provider status %s", body.Status)
	}

	return body.Results, nil
}
