package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

// fetchTimeout caps a single media download. It is the only explicit timeout
// on the relay path.
const fetchTimeout = 90 * time.Second

type IDownloader interface {
	FetchToFile(ctx context.Context, rawURL, destPath string) error
}

type Downloader struct {
	httpClient *http.Client
}

func NewDownloader() IDownloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// FetchToFile streams the media behind rawURL into destPath. On any failure
// after the file was created, the partial file is removed before returning.
func (d *Downloader) FetchToFile(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while downloading media")
		return fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.GetLogger().WithField("status", resp.StatusCode).Error("Media host returned unexpected status")
		return fmt.Errorf("failed to download media: unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create media file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(destPath)
		return fmt.Errorf("failed to write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(destPath)
		return fmt.Errorf("failed to close media file: %w", err)
	}
	return nil
}
