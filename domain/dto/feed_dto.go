package dto

import (
	"time"

	"github.com/elainedb/videofeed/domain/model"
)

// FeedListRequest represents query parameters for the combined feed
type FeedListRequest struct {
	ChannelID  string `form:"channel_id"`
	Country    string `form:"country"`
	Sort       string `form:"sort"`  // published_at, recording_date
	Order      string `form:"order"` // asc, desc
	PerChannel int    `form:"per_channel"`
	Refresh    bool   `form:"refresh"` // bypass the video-list cache
}

// FeedVideo is the list-item shape served to clients: the enriched video
// plus its dates rendered the way the feed displays them. The formatted
// fields shadow the raw model values in the JSON output.
type FeedVideo struct {
	model.Video
	PublishedDate string `json:"published_date,omitempty"`
	RecordingDate string `json:"recording_date,omitempty"`
}

// FeedResponse wraps the combined feed payload
type FeedResponse struct {
	Count  int         `json:"count"`
	Videos interface{} `json:"videos"`
}

// NewFeedResponse projects videos into their display shape.
func NewFeedResponse(videos []model.Video) FeedResponse {
	items := make([]FeedVideo, len(videos))
	for i, v := range videos {
		items[i] = FeedVideo{
			Video:         v,
			PublishedDate: FormatDateYYYYMMDD(v.PublishedAt),
			RecordingDate: FormatDateYYYYMMDD(v.RecordingDate),
		}
	}
	return FeedResponse{Count: len(videos), Videos: items}
}

// FormatDateYYYYMMDD renders an ISO timestamp as YYYY-MM-DD for display.
// Unparsable input is returned unchanged, mirroring the feed UI behavior.
func FormatDateYYYYMMDD(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		if d, dErr := time.Parse("2006-01-02", iso); dErr == nil {
			return d.Format("2006-01-02")
		}
		return iso
	}
	return t.UTC().Format("2006-01-02")
}
