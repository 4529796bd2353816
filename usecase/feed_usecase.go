package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/elainedb/videofeed/domain/model"
	"github.com/elainedb/videofeed/domain/repository"
	"github.com/elainedb/videofeed/infrastructure/cache"

	"golang.org/x/sync/errgroup"
)

const (
	videoCacheKeyPrefix = "videoCache_v3"
	videoCacheTTL       = 24 * time.Hour

	// Safety range for the per-channel limit; the raw value feeds slice
	// capacities and the cache key, so it is normalized before use.
	perChannelFloor = 1
	perChannelCeil  = 500
)

// IFeedUseCase defines the operations of the combined video feed
type IFeedUseCase interface {
	// GetCombinedVideos returns the merged, enriched, recency-sorted feed for
	// the given channels, served from the video-list cache when fresh enough.
	GetCombinedVideos(ctx context.Context, channelIDs []string, perChannel int, forceRefresh bool) ([]model.Video, error)
	// FilterVideos narrows a feed by channel and/or country; empty filters
	// pass everything through.
	FilterVideos(videos []model.Video, channelID, country string) []model.Video
	// SortVideos re-sorts a feed copy by published_at or recording_date.
	SortVideos(videos []model.Video, by, order string) []model.Video
	// Markers projects videos carrying coordinates into map markers.
	Markers(videos []model.Video) []model.MapMarker
}

// FeedUseCase implements the aggregation pipeline: concurrent per-channel
// fetch, one detail fetch over all IDs, location enrichment, join, sort, and
// read-through/write-through caching.
type FeedUseCase struct {
	source   repository.IVideoSource
	geocoder repository.IGeocoder
	store    repository.ICacheStore
}

func NewFeedUseCase(source repository.IVideoSource, geocoder repository.IGeocoder, store repository.ICacheStore) IFeedUseCase {
	return &FeedUseCase{source: source, geocoder: geocoder, store: store}
}

func (u *FeedUseCase) GetCombinedVideos(ctx context.Context, channelIDs []string, perChannel int, forceRefresh bool) ([]model.Video, error) {
	perChannel = clampPerChannel(perChannel)
	key := videoCacheKey(channelIDs, perChannel)
	if !forceRefresh {
		if videos, ok := cache.ReadEnvelope[[]model.Video](ctx, u.store, key, videoCacheTTL); ok {
			return videos, nil
		}
	}

	videos, err := u.fetchCombined(ctx, channelIDs, perChannel)
	if err != nil {
		return nil, err
	}
	// Unconditional write-through, even for an empty result.
	cache.WriteEnvelope(ctx, u.store, key, videos)
	return videos, nil
}

func (u *FeedUseCase) fetchCombined(ctx context.Context, channelIDs []string, perChannel int) ([]model.Video, error) {
	lists := make([][]model.Video, len(channelIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, channelID := range channelIDs {
		g.Go(func() error {
			videos, err := u.source.FetchChannelVideos(gctx, channelID, perChannel)
			if err != nil {
				return fmt.Errorf("channel %s: %w", channelID, err)
			}
			lists[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := make([]model.Video, 0, len(channelIDs)*perChannel)
	for _, list := range lists {
		combined = append(combined, list...)
	}

	ids := make([]string, 0, len(combined))
	for _, v := range combined {
		ids = append(ids, v.ID)
	}
	details, err := u.source.FetchVideoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	detailMap := make(map[string]model.Video, len(details))
	for _, d := range details {
		detailMap[d.ID] = u.enrich(ctx, d)
	}

	for i := range combined {
		if d, ok := detailMap[combined[i].ID]; ok {
			overlayDetail(&combined[i], d)
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return parsePublished(combined[i].PublishedAt).After(parsePublished(combined[j].PublishedAt))
	})
	return combined, nil
}

// enrich resolves a detail record's location. Structured free-text parsing
// wins; reverse geocoding fills only the still-unset fields, and a geocoder
// miss leaves whatever is already there.
func (u *FeedUseCase) enrich(ctx context.Context, d model.VideoDetail) model.Video {
	v := model.Video{
		ID:            d.ID,
		Tags:          d.Tags,
		RecordingDate: d.RecordingDate,
		LocationLat:   d.Latitude,
		LocationLng:   d.Longitude,
	}
	v.LocationCity, v.LocationCountry = parseLocationDescription(d.LocationDescription)

	if (v.LocationCity == "" || v.LocationCountry == "") && d.Latitude != nil && d.Longitude != nil {
		if place := u.geocoder.ReverseGeocode(ctx, *d.Latitude, *d.Longitude); place != nil {
			if v.LocationCity == "" {
				v.LocationCity = place.City
			}
			if v.LocationCountry == "" {
				v.LocationCountry = place.Country
			}
		}
	}
	return v
}

// overlayDetail merges enriched detail fields onto a summary record. Summary
// fields stay untouched; a summary with no matching detail keeps only its
// summary fields.
func overlayDetail(v *model.Video, d model.Video) {
	v.Tags = d.Tags
	v.RecordingDate = d.RecordingDate
	v.LocationCity = d.LocationCity
	v.LocationCountry = d.LocationCountry
	v.LocationLat = d.LocationLat
	v.LocationLng = d.LocationLng
}

func (u *FeedUseCase) FilterVideos(videos []model.Video, channelID, country string) []model.Video {
	if channelID == "" && country == "" {
		return videos
	}
	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if channelID != "" && v.ChannelID != channelID {
			continue
		}
		if country != "" && !strings.EqualFold(v.LocationCountry, country) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (u *FeedUseCase) SortVideos(videos []model.Video, by, order string) []model.Video {
	out := make([]model.Video, len(videos))
	copy(out, videos)

	keyOf := func(v model.Video) time.Time {
		if by == "recording_date" {
			return parseRecordingDate(v.RecordingDate)
		}
		return parsePublished(v.PublishedAt)
	}
	asc := order == "asc"
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return keyOf(out[i]).Before(keyOf(out[j]))
		}
		return keyOf(out[i]).After(keyOf(out[j]))
	})
	return out
}

func (u *FeedUseCase) Markers(videos []model.Video) []model.MapMarker {
	markers := make([]model.MapMarker, 0, len(videos))
	for _, v := range videos {
		if v.LocationLat == nil || v.LocationLng == nil {
			continue
		}
		markers = append(markers, model.MapMarker{
			ID:      v.ID,
			Title:   v.Title,
			Lat:     *v.LocationLat,
			Lng:     *v.LocationLng,
			City:    v.LocationCity,
			Country: v.LocationCountry,
		})
	}
	return markers
}

func clampPerChannel(n int) int {
	if n < perChannelFloor {
		return perChannelFloor
	}
	if n > perChannelCeil {
		return perChannelCeil
	}
	return n
}

func videoCacheKey(channelIDs []string, perChannel int) string {
	return videoCacheKeyPrefix + ":" + strings.Join(channelIDs, ",") + ":" + strconv.Itoa(perChannel)
}

// parseLocationDescription splits a free-text location on commas; with at
// least two segments the first becomes the city and the last the country.
func parseLocationDescription(desc string) (city, country string) {
	parts := make([]string, 0, 4)
	for _, p := range strings.Split(desc, ",") {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) >= 2 {
		return parts[0], parts[len(parts)-1]
	}
	return "", ""
}

// parsePublished treats unparsable or empty timestamps as the oldest
// possible value so they sort last in a descending feed.
func parsePublished(iso string) time.Time {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

func parseRecordingDate(date string) time.Time {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t
	}
	return parsePublished(date)
}
