package model

// Video is the canonical enriched record served by the feed. Summary fields
// come from the paginated search endpoint; the rest is overlaid from the
// per-ID detail endpoint and, when needed, reverse geocoding.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	// PublishedAt is the raw ISO-8601 string from the API. It is kept as a
	// string so that an empty or unparsable value can still be carried and
	// sorted as the oldest possible value.
	PublishedAt  string `json:"published_at"`
	ThumbnailURL string `json:"thumbnail_url"`

	Tags            []string `json:"tags,omitempty"`
	RecordingDate   string   `json:"recording_date,omitempty"`
	LocationCity    string   `json:"location_city,omitempty"`
	LocationCountry string   `json:"location_country,omitempty"`
	LocationLat     *float64 `json:"location_lat,omitempty"`
	LocationLng     *float64 `json:"location_lng,omitempty"`
}

// VideoDetail carries the raw extended metadata for one video as returned by
// the detail endpoint, before location resolution.
type VideoDetail struct {
	ID                  string
	Tags                []string
	RecordingDate       string
	LocationDescription string
	Latitude            *float64
	Longitude           *float64
}

// Place is a resolved city/country pair from reverse geocoding. Either field
// may be empty for sparse addresses.
type Place struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// MapMarker is the shape handed to the map renderer. Only videos with
// coordinates produce markers.
type MapMarker struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
}
