package repository

import (
	"context"

	"github.com/elainedb/videofeed/domain/model"
)

// IVideoSource abstracts the remote video APIs: the paginated per-channel
// search endpoint and the batch detail endpoint.
type IVideoSource interface {
	// FetchChannelVideos returns up to limit most-recent summary records for
	// one channel. The limit is clamped to [1, 500]; a channel with fewer
	// videos yields a short result, not an error.
	FetchChannelVideos(ctx context.Context, channelID string, limit int) ([]model.Video, error)
	// FetchVideoDetails batch-fetches extended metadata for the given IDs,
	// keyed for a later join by ID.
	FetchVideoDetails(ctx context.Context, ids []string) ([]model.VideoDetail, error)
}
