package http

import (
	"net/http"
	"strconv"

	"github.com/elainedb/videofeed/domain/dto"
	"github.com/elainedb/videofeed/usecase"

	"github.com/gin-gonic/gin"
)

// IFeedHandler defines the HTTP surface of the combined video feed
type IFeedHandler interface {
	GetVideos(ctx *gin.Context)
	GetMarkers(ctx *gin.Context)
}

// FeedHandler serves the merged feed and the map markers over the configured
// channel list.
type FeedHandler struct {
	feedUseCase usecase.IFeedUseCase
	channelIDs  []string
	perChannel  int
}

func NewFeedHandler(feedUseCase usecase.IFeedUseCase, channelIDs []string, perChannel int) IFeedHandler {
	return &FeedHandler{feedUseCase: feedUseCase, channelIDs: channelIDs, perChannel: perChannel}
}

// GetVideos handles GET /api/videos
func (h *FeedHandler) GetVideos(ctx *gin.Context) {
	req := h.parseRequest(ctx)

	videos, err := h.feedUseCase.GetCombinedVideos(ctx.Request.Context(), h.channelIDs, req.PerChannel, req.Refresh)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load videos",
			"message": err.Error(),
		})
		return
	}

	videos = h.feedUseCase.FilterVideos(videos, req.ChannelID, req.Country)
	if req.Sort != "" || req.Order != "" {
		videos = h.feedUseCase.SortVideos(videos, req.Sort, req.Order)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.NewFeedResponse(videos),
	})
}

// GetMarkers handles GET /api/videos/markers
func (h *FeedHandler) GetMarkers(ctx *gin.Context) {
	req := h.parseRequest(ctx)

	videos, err := h.feedUseCase.GetCombinedVideos(ctx.Request.Context(), h.channelIDs, req.PerChannel, req.Refresh)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load markers",
			"message": err.Error(),
		})
		return
	}

	markers := h.feedUseCase.Markers(videos)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": markers})
}

func (h *FeedHandler) parseRequest(ctx *gin.Context) dto.FeedListRequest {
	req := dto.FeedListRequest{
		ChannelID:  ctx.Query("channel_id"),
		Country:    ctx.Query("country"),
		Sort:       ctx.Query("sort"),
		Order:      ctx.Query("order"),
		PerChannel: h.perChannel,
		Refresh:    ctx.Query("refresh") == "true",
	}
	if raw := ctx.Query("per_channel"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil {
			req.PerChannel = val
		}
	}
	return req
}
