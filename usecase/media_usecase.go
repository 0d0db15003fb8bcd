package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/domain/platform"
	"github.com/FatihZee/tele-bot/domain/repository"
	"github.com/FatihZee/tele-bot/infrastructure/cache"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
	"github.com/FatihZee/tele-bot/infrastructure/pubsub"
	"github.com/FatihZee/tele-bot/infrastructure/servicebus"
	"github.com/FatihZee/tele-bot/infrastructure/utils"
)

// Broadcaster pushes a finished download to in-process listeners, such as
// the admin live stream.
type Broadcaster func(event model.DownloadEvent)

// IMediaUsecase runs one relay end to end: platform gate, extraction,
// persistence, delivery, then the best-effort integrations.
type IMediaUsecase interface {
	ProcessLink(ctx context.Context, sender MediaSender, rawURL string) error
	WithBroadcaster(b Broadcaster) IMediaUsecase
}

type MediaUsecase struct {
	matcher         *platform.Matcher
	extractor       repository.IExtractor
	videoRepository repository.IVideoRecord
	delivery        IDeliveryUsecase
	statsCache      cache.IStatsCache
	downloadPubSub  pubsub.IDownloadPubSub
	downloadBus     servicebus.IDownloadServiceBus
	broadcaster     Broadcaster
}

func NewMediaUsecase(
	matcher *platform.Matcher,
	extractor repository.IExtractor,
	videoRepository repository.IVideoRecord,
	delivery IDeliveryUsecase,
	statsCache cache.IStatsCache,
	downloadPubSub pubsub.IDownloadPubSub,
	downloadBus servicebus.IDownloadServiceBus,
) IMediaUsecase {
	return &MediaUsecase{
		matcher:         matcher,
		extractor:       extractor,
		videoRepository: videoRepository,
		delivery:        delivery,
		statsCache:      statsCache,
		downloadPubSub:  downloadPubSub,
		downloadBus:     downloadBus,
	}
}

// WithBroadcaster attaches an optional listener for successful downloads.
func (u *MediaUsecase) WithBroadcaster(b Broadcaster) IMediaUsecase {
	u.broadcaster = b
	return u
}

// ProcessLink is strictly sequential; every step's failure ends the relay
// after exactly one user notice.
func (u *MediaUsecase) ProcessLink(ctx context.Context, sender MediaSender, rawURL string) error {
	platformName, ok := u.matcher.Identify(rawURL)
	if !ok {
		if err := sender.Notify(fmt.Sprintf("This link isn't supported yet. I can download from: %s", u.matcher.SupportedPlatforms())); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while notifying unsupported platform")
		}
		return nil
	}

	info, err := u.extractor.FetchMedia(ctx, rawURL)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":    err,
			"platform": platformName,
		}).Error("Extraction failed")

		notice := fmt.Sprintf("Sorry, extracting media from %s failed. Please try again later.", platformName)
		if errors.Is(err, model.ErrMediaNotFound) {
			notice = fmt.Sprintf("I couldn't find any downloadable media in that %s link.", platformName)
		}
		if notifyErr := sender.Notify(notice); notifyErr != nil {
			logger.GetLogger().WithField("error", notifyErr).Error("Error while notifying extraction failure")
		}
		return err
	}

	record := &model.VideoRecord{
		Platform:       info.Platform,
		VideoURL:       info.MediaURL,
		VideoThumbnail: info.Thumbnail,
		OriginalURL:    rawURL,
		DateAdded:      utils.GetCurrentTime(),
	}
	if err := u.videoRepository.Create(ctx, record); err != nil {
		if notifyErr := sender.Notify("Something went wrong on our side. Please try again later."); notifyErr != nil {
			logger.GetLogger().WithField("error", notifyErr).Error("Error while notifying persistence failure")
		}
		return fmt.Errorf("failed to persist video record: %w", err)
	}

	if err := u.delivery.Deliver(ctx, sender, info); err != nil {
		// Deliver already gave the user their one notice
		return err
	}

	u.afterSuccess(ctx, info, rawURL)
	return nil
}

// afterSuccess runs the best-effort integrations. Failures are logged and
// never surface to the conversation.
func (u *MediaUsecase) afterSuccess(ctx context.Context, info model.MediaInfo, rawURL string) {
	if err := u.statsCache.RecordDownload(ctx, info.Platform); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Recording download stats failed")
	}

	event := model.DownloadEvent{
		Platform:    info.Platform,
		MediaType:   info.Type,
		OriginalURL: rawURL,
		MediaURL:    info.MediaURL,
		OccurredAt:  utils.GetCurrentTime(),
	}
	if _, err := u.downloadPubSub.PublishDownload(ctx, event); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Publishing download event failed")
	}
	if err := u.downloadBus.SendDownloadEvent(ctx, event); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Sending download event failed")
	}
	if u.broadcaster != nil {
		u.broadcaster(event)
	}
}
