package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/infrastructure/downloader"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

// MediaSender is the conversation handle one relay replies through. Notify
// carries plain text; the Send methods upload a local file with a caption.
type MediaSender interface {
	Notify(text string) error
	SendVideo(path, caption string) error
	SendAudio(path, caption string) error
	SendPhoto(path, caption string) error
	SendDocument(path, caption string) error
}

// IDeliveryUsecase fetches the selected media and sends it back into the
// conversation. The user receives at most one failure notice per call.
type IDeliveryUsecase interface {
	Deliver(ctx context.Context, sender MediaSender, info model.MediaInfo) error
}

type DeliveryUsecase struct {
	downloader downloader.IDownloader
	tempDir    string
}

func NewDeliveryUsecase(d downloader.IDownloader, tempDir string) IDeliveryUsecase {
	return &DeliveryUsecase{downloader: d, tempDir: tempDir}
}

func (u *DeliveryUsecase) Deliver(ctx context.Context, sender MediaSender, info model.MediaInfo) error {
	if err := sender.Notify(fmt.Sprintf("Got it! Downloading your %s from %s...", info.Type, info.Platform)); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while notifying download start")
	}

	fileName := fmt.Sprintf("%s_%d.%s", info.Type, time.Now().UnixNano(), info.Extension)
	filePath := filepath.Join(u.tempDir, fileName)

	if err := u.downloader.FetchToFile(ctx, info.MediaURL, filePath); err != nil {
		if notifyErr := sender.Notify("Sorry, downloading the media failed. Please try again later."); notifyErr != nil {
			logger.GetLogger().WithField("error", notifyErr).Error("Error while notifying download failure")
		}
		return fmt.Errorf("failed to fetch media: %w", err)
	}
	defer func() {
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error": err,
				"file":  filePath,
			}).Error("Error while removing temp file")
		}
	}()

	caption := fmt.Sprintf("Downloaded from %s", info.Platform)
	if err := u.send(sender, info.Type, filePath, caption); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"type":  info.Type,
		}).Error("Sending media failed - falling back to document")

		fallbackCaption := fmt.Sprintf("Downloaded from %s (original file)", info.Platform)
		if err := sender.SendDocument(filePath, fallbackCaption); err != nil {
			if notifyErr := sender.Notify("Sorry, I couldn't send the media back to you."); notifyErr != nil {
				logger.GetLogger().WithField("error", notifyErr).Error("Error while notifying send failure")
			}
			return fmt.Errorf("failed to send media: %w", err)
		}
	}
	return nil
}

func (u *DeliveryUsecase) send(sender MediaSender, mediaType, path, caption string) error {
	switch mediaType {
	case model.MediaTypeAudio:
		return sender.SendAudio(path, caption)
	case model.MediaTypeImage:
		return sender.SendPhoto(path, caption)
	default:
		return sender.SendVideo(path, caption)
	}
}
