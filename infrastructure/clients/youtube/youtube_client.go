package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elainedb/videofeed/domain/model"
	"github.com/elainedb/videofeed/domain/repository"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// Upstream caps a single search page and a single detail batch at 50.
	maxPerPage      = 50
	detailBatchSize = 50

	// Safety range for the per-channel limit regardless of caller input.
	limitFloor = 1
	limitCeil  = 500
)

// Client wraps the YouTube Data API for the feed: paginated per-channel
// search plus batched detail lookup.
type Client struct {
	service *youtube.Service
}

// Config represents YouTube API configuration
type Config struct {
	APIKey string `json:"api_key"`
}

// NewClient creates a read-only YouTube API client in API-key mode. Extra
// client options (e.g. an alternate endpoint) are appended after the key.
func NewClient(ctx context.Context, config *Config, opts ...option.ClientOption) (repository.IVideoSource, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("youtube API key is required")
	}
	all := append([]option.ClientOption{option.WithAPIKey(config.APIKey)}, opts...)
	service, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// FetchChannelVideos collects up to limit most-recent summary records for one
// channel, paging through the search endpoint. A channel with fewer videos
// than requested yields a short result; items without a video ID are dropped.
func (c *Client) FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]model.Video, error) {
	capped := clampLimit(limit)
	collected := make([]model.Video, 0, capped)
	pageToken := ""

	for len(collected) < capped {
		perPage := capped - len(collected)
		if perPage > maxPerPage {
			perPage = maxPerPage
		}
		call := c.service.Search.List([]string{"snippet"}).
			ChannelId(channelID).
			Order("date").
			Type("video").
			MaxResults(int64(perPage)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, wrapAPIError("search", err)
		}

		for _, item := range response.Items {
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			video := model.Video{ID: item.Id.VideoId}
			if sn := item.Snippet; sn != nil {
				video.Title = sn.Title
				video.ChannelID = sn.ChannelId
				video.ChannelTitle = sn.ChannelTitle
				video.PublishedAt = sn.PublishedAt
				video.ThumbnailURL = bestThumbnail(sn.Thumbnails)
			}
			collected = append(collected, video)
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	// The last page may over-deliver.
	if len(collected) > capped {
		collected = collected[:capped]
	}
	return collected, nil
}

// FetchVideoDetails batch-fetches extended metadata for the given video IDs
// in chunks of at most 50.
func (c *Client) FetchVideoDetails(ctx context.Context, ids []string) ([]model.VideoDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	details := make([]model.VideoDetail, 0, len(ids))

	for start := 0; start < len(ids); start += detailBatchSize {
		end := start + detailBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		response, err := c.service.Videos.List([]string{"snippet", "recordingDetails"}).
			Id(ids[start:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, wrapAPIError("videos", err)
		}

		for _, item := range response.Items {
			detail := model.VideoDetail{ID: item.Id}
			if sn := item.Snippet; sn != nil {
				detail.Tags = sn.Tags
			}
			if rd := item.RecordingDetails; rd != nil {
				detail.RecordingDate = rd.RecordingDate
				detail.LocationDescription = rd.LocationDescription
				if loc := rd.Location; loc != nil {
					lat, lng := loc.Latitude, loc.Longitude
					detail.Latitude = &lat
					detail.Longitude = &lng
				}
			}
			details = append(details, detail)
		}
	}
	return details, nil
}

func clampLimit(limit int) int {
	if limit < limitFloor {
		return limitFloor
	}
	if limit > limitCeil {
		return limitCeil
	}
	return limit
}

// bestThumbnail picks the best-available image by a fixed quality preference.
func bestThumbnail(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

// wrapAPIError surfaces the upstream status and body for non-success
// responses; these are fatal to the current call and are not retried.
func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("youtube %s error (%d): %s", op, apiErr.Code, strings.TrimSpace(apiErr.Body))
	}
	return fmt.Errorf("youtube %s failed: %w", op, err)
}
