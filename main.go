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

	"golang.org/x/sync/errgroup"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/domain/platform"
	"github.com/FatihZee/tele-bot/domain/repository"
	"github.com/FatihZee/tele-bot/infrastructure/cache"
	"github.com/FatihZee/tele-bot/infrastructure/clients/extractor"
	"github.com/FatihZee/tele-bot/infrastructure/configuration"
	"github.com/FatihZee/tele-bot/infrastructure/downloader"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
	"github.com/FatihZee/tele-bot/infrastructure/persistence"
	"github.com/FatihZee/tele-bot/infrastructure/pubsub"
	"github.com/FatihZee/tele-bot/infrastructure/realtime"
	"github.com/FatihZee/tele-bot/infrastructure/servicebus"
	"github.com/FatihZee/tele-bot/interfaces/bot"
	httpHandler "github.com/FatihZee/tele-bot/interfaces/http"
	"github.com/FatihZee/tele-bot/interfaces/middleware"
	"github.com/FatihZee/tele-bot/server"
	"github.com/FatihZee/tele-bot/usecase"

	"github.com/gin-gonic/gin"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence),
	// then rebuild the configuration so the file values are picked up.
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.Reload()

	if err := configuration.Validate(&configuration.C); err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Configuration invalid")
	}

	app := configuration.C.App

	matcher, err := InitiateMatcher()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Platform rules invalid")
	}

	videoRepository, err := InitiateVideoStore(ctx)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			WithField("vendor", configuration.C.Database.Vendor).
			Fatal("Cannot connect to the video store")
	}
	logger.GetLogger().WithField("vendor", configuration.C.Database.Vendor).Info("Video store connected.")

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without PubSub features")
		pubSubClient = nil
	}

	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus features")
		azServiceBusClient = nil
	}

	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)

	statsCache := cache.NewStatsCache(redisClient)
	downloadPubSub := pubsub.NewDownloadPubSub(pubSubClient, configuration.C.Pubsub.Topic)
	downloadServiceBus := servicebus.NewDownloadServiceBus(azServiceBusClient, configuration.C.ServiceBus.Queue)

	extractorClient := extractor.NewExtractorClient(&extractor.Config{
		URL:     configuration.C.Extractor.URL,
		APIKey:  configuration.C.Extractor.APIKey,
		APIHost: configuration.C.Extractor.APIHost,
	}, matcher)

	downloadHub := realtime.NewDownloadHub()

	deliveryUsecase := usecase.NewDeliveryUsecase(downloader.NewDownloader(), app.TempDir)
	mediaUsecase := usecase.NewMediaUsecase(
		matcher,
		extractorClient,
		videoRepository,
		deliveryUsecase,
		statsCache,
		downloadPubSub,
		downloadServiceBus,
	)
	mediaUsecase = mediaUsecase.WithBroadcaster(func(event model.DownloadEvent) { downloadHub.BroadcastDownload(event) })

	botHandler, err := bot.NewBotHandler(configuration.C.Telegram.BotToken, mediaUsecase, matcher)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot connect to the Telegram API")
	}

	authHandler := httpHandler.NewAuthHandler(app)
	videoHandler := httpHandler.NewVideoHandler(videoRepository, statsCache)
	router := server.InitiateRouter(authHandler, videoHandler, app.SecretKey)

	// SSE endpoint for the admin dashboard's live download feed
	api := router.Group("api")
	api.Use(middleware.Auth(app.SecretKey))
	api.GET("/stream", func(c *gin.Context) { downloadHub.Serve(c) })

	g.Go(func() error {
		botHandler.Start()
		return nil
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{
		"port":      port,
		"platforms": matcher.SupportedPlatforms(),
	}).Info("Starting application")
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
	botHandler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateMatcher builds the platform matcher from the configured rules. A
// rule list that fails matcher validation is a fatal configuration error.
func InitiateMatcher() (*platform.Matcher, error) {
	rules := make([]model.PlatformRule, 0, len(configuration.C.Platforms))
	for _, p := range configuration.C.Platforms {
		rules = append(rules, model.PlatformRule{Name: p.Name, Patterns: p.Patterns})
	}
	return platform.NewMatcher(rules)
}

// InitiateVideoStore connects the configured vendor and returns its record
// repository. A connection failure here is fatal; the relay cannot run
// without its store.
func InitiateVideoStore(ctx context.Context) (repository.IVideoRecord, error) {
	vendor := configuration.C.Database.Vendor
	switch vendor {
	case "", "mongo":
		mongoDb, err := persistence.NewMongoDb(configuration.C.Database.Mongo)
		if err != nil {
			return nil, err
		}
		if err := mongoDb.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		return persistence.NewVideoRepository(mongoDb, configuration.C.Database.Mongo.Name), nil
	case "postgres":
		psqlDb, err := persistence.NewPostgreSQLDB()
		if err != nil {
			return nil, err
		}
		if err := persistence.EnsureVideoSchema(psqlDb); err != nil {
			return nil, err
		}
		return persistence.NewVideoRepositoryPsql(psqlDb), nil
	case "mssql":
		mssqlDb, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, err
		}
		if err := persistence.EnsureVideoSchemaMSSQL(mssqlDb); err != nil {
			return nil, err
		}
		return persistence.NewVideoRepositoryMSSQL(mssqlDb), nil
	case "mysql":
		gormDb, err := persistence.NewMySQLDB()
		if err != nil {
			return nil, err
		}
		return persistence.NewVideoRepositoryMySQL(gormDb), nil
	}
	return nil, fmt.Errorf("unknown database vendor %q", vendor)
}
