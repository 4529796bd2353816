package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elainedb/videofeed/domain/model"
	"github.com/elainedb/videofeed/domain/repository"
	"github.com/elainedb/videofeed/infrastructure/cache"
	"github.com/elainedb/videofeed/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

const (
	cacheKeyPrefix = "geocodeCache_v1"
	// City/country rarely change for a coordinate; keep results for a month.
	cacheTTL = 30 * 24 * time.Hour
)

// Geocoder resolves coordinates to a city/country pair using the OpenStreetMap
// Nominatim reverse endpoint. Results are cached long-term and every failure
// degrades to "no data": ReverseGeocode never returns an error.
type Geocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	store      repository.ICacheStore
}

func NewGeocoder(baseURL, userAgent string, store repository.ICacheStore) *Geocoder {
	return &Geocoder{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      store,
	}
}

type reverseQuery struct {
	Format         string  `url:"format"`
	Lat            float64 `url:"lat"`
	Lon            float64 `url:"lon"`
	Zoom           int     `url:"zoom"`
	AddressDetails int     `url:"addressdetails"`
}

type reverseResponse struct {
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Hamlet       string `json:"hamlet"`
		Municipality string `json:"municipality"`
		Country      string `json:"country"`
	} `json:"address"`
}

// CacheKey rounds coordinates to 5 decimal places to bound key cardinality,
// so near-identical coordinates share one cache entry.
func CacheKey(lat, lng float64) string {
	return fmt.Sprintf("%s:%.5f,%.5f", cacheKeyPrefix, lat, lng)
}

func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) *model.Place {
	key := CacheKey(lat, lng)
	if place, ok := cache.ReadEnvelope[model.Place](ctx, g.store, key, cacheTTL); ok {
		return &place
	}

	values, err := query.Values(reverseQuery{
		Format:         "jsonv2",
		Lat:            lat,
		Lon:            lng,
		Zoom:           10,
		AddressDetails: 1,
	})
	if err != nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+values.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Debug("reverse geocode request failed")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil
	}

	addr := body.Address
	place := model.Place{
		City:    firstNonEmpty(addr.City, addr.Town, addr.Village, addr.Hamlet, addr.Municipality),
		Country: addr.Country,
	}
	// Cache unconditionally, even when both fields end up unset, to avoid
	// repeated misses for sparse addresses.
	cache.WriteEnvelope(ctx, g.store, key, place)
	return &place
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
