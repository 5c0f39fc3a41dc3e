package provider

// NearbySearchResponse is the wire format of the places nearby-search API
type NearbySearchResponse struct {
	HTMLAttributions []string `json:"html_attributions"`
	NextPageToken    string   `json:"next_page_token"`
	Results          []Place  `json:"results"`
	Status           string   `json:"status"`
	ErrorMessage     string   `json:"error_message,omitempty"`
}

// Place is one raw provider record, prior to normalization and filtering
type Place struct {
	BusinessStatus   *string       `json:"business_status,omitempty"`
	Geometry         Geometry      `json:"geometry"`
	Name             string        `json:"name"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	Photos           []Photo       `json:"photos,omitempty"`
	PlaceID          string        `json:"place_id"`
	Rating           *float64      `json:"rating,omitempty"`
	Types            []string      `json:"types"`
	UserRatingsTotal *int          `json:"user_ratings_total,omitempty"`
	Vicinity         *string       `json:"vicinity,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
}

type Geometry struct {
	Location Location `json:"location"`
	Viewport Viewport `json:"viewport"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Viewport struct {
	Northeast Location `json:"northeast"`
	Southwest Location `json:"southwest"`
}

type OpeningHours struct {
	OpenNow bool `json:"open_now"`
}

type Photo struct {
	Height           int      `json:"height"`
	HTMLAttributions []string `json:"html_attributions"`
	PhotoReference   string   `json:"photo_reference"`
	Width            int      `json:"width"`
}
