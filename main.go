package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elainedb/videofeed/domain/repository"
	"github.com/elainedb/videofeed/infrastructure/cache"
	"github.com/elainedb/videofeed/infrastructure/clients/googleauth"
	"github.com/elainedb/videofeed/infrastructure/clients/nominatim"
	youtubeclient "github.com/elainedb/videofeed/infrastructure/clients/youtube"
	"github.com/elainedb/videofeed/infrastructure/configuration"
	"github.com/elainedb/videofeed/infrastructure/logger"
	"github.com/elainedb/videofeed/infrastructure/persistence"
	httpHandler "github.com/elainedb/videofeed/interfaces/http"
	"github.com/elainedb/videofeed/server"
	"github.com/elainedb/videofeed/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence),
	// then reload config so env-sourced values take effect.
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.LoadConfig()

	app := configuration.C.App

	store := initiateCacheStore(ctx)

	// Video source wiring: a missing API key disables the feed routes but
	// never prevents startup.
	var feedHandler httpHandler.IFeedHandler
	apiKey, err := configuration.GetYouTubeAPIKey()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Video feed disabled")
	} else {
		source, err := youtubeclient.NewClient(ctx, &youtubeclient.Config{APIKey: apiKey})
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed to initialize YouTube client")
		} else {
			geocoder := nominatim.NewGeocoder(
				configuration.C.Geocoder.BaseURL,
				configuration.C.Geocoder.UserAgent,
				store,
			)
			feedUseCase := usecase.NewFeedUseCase(source, geocoder, store)
			feedHandler = httpHandler.NewFeedHandler(
				feedUseCase,
				configuration.C.YouTube.ChannelIDs,
				configuration.C.YouTube.PerChannel,
			)
			logger.GetLogger().WithField("channels", len(configuration.C.YouTube.ChannelIDs)).Info("Video feed initialized")
		}
	}

	verifier, err := googleauth.NewVerifier(ctx, configuration.C.Auth.GoogleClientID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to initialize token verifier")
		verifier = unavailableVerifier{}
	}
	authUseCase := usecase.NewAuthUseCase(verifier, configuration.C.Auth.AuthorizedEmails, app.SecretKey)
	authHandler := httpHandler.NewAuthHandler(authUseCase)

	router := server.InitiateRouter(authHandler, feedHandler, app.SecretKey)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateCacheStore selects the envelope store backend. Every failure path
// degrades to the no-op store: the feed still works, it just refetches.
func initiateCacheStore(ctx context.Context) repository.ICacheStore {
	backend := configuration.C.Cache.Backend
	switch backend {
	case "redis":
		redisClient, err := cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
			configuration.C.RedisClient.Username,
			configuration.C.RedisClient.Password,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without caching")
			return cache.NewNoopStore()
		}
		logger.GetLogger().Info("Redis cache store initialized")
		return cache.NewStore(redisClient)
	case "postgres":
		db, err := persistence.NewPostgreSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - continuing without caching")
			return cache.NewNoopStore()
		}
		if err := persistence.EnsureEnvelopeSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring envelope schema")
			return cache.NewNoopStore()
		}
		logger.GetLogger().Info("PostgreSQL cache store initialized")
		return persistence.NewEnvelopeRepository(db)
	case "mssql":
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MSSQL not available - continuing without caching")
			return cache.NewNoopStore()
		}
		if err := persistence.EnsureEnvelopeSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring envelope schema")
			return cache.NewNoopStore()
		}
		logger.GetLogger().Info("MSSQL cache store initialized")
		return persistence.NewEnvelopeRepositoryMSSQL(db)
	case "none":
		logger.GetLogger().Info("Caching disabled by configuration")
		return cache.NewNoopStore()
	default:
		logger.GetLogger().WithField("backend", backend).Warn("Unknown cache backend - continuing without caching")
		return cache.NewNoopStore()
	}
}

// unavailableVerifier stands in when the identity service client could not be
// built; every sign-in fails with a configuration error instead of a panic.
type unavailableVerifier struct{}

func (unavailableVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	return "", fmt.Errorf("token verifier not available")
}
