package server

import (
	"net/http"
	"time"

	httpHandler "github.com/elainedb/videofeed/interfaces/http"
	"github.com/elainedb/videofeed/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	authHandler httpHandler.IAuthHandler,
	feedHandler httpHandler.IFeedHandler,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:3000", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", authHandler.Login)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))

	api.GET("/account", authHandler.Account)

	if feedHandler != nil {
		api.GET("/videos", feedHandler.GetVideos)
		api.GET("/videos/markers", feedHandler.GetMarkers)
	} else {
		// Fallback when the video source is not configured
		api.GET("/videos", func(ctx *gin.Context) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Video source not configured",
				"message": "Set YOUTUBE_API_KEY to enable the video feed",
			})
		})
		api.GET("/videos/markers", func(ctx *gin.Context) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Video source not configured",
				"message": "Set YOUTUBE_API_KEY to enable the video feed",
			})
		})
	}

	return router
}
