package repository

import (
	"context"

	"github.com/FatihZee/tele-bot/domain/model"
)

// IExtractor asks the third-party extraction API for the downloadable assets
// behind a URL and resolves the best candidate.
type IExtractor interface {
	FetchMedia(ctx context.Context, rawURL string) (model.MediaInfo, error)
}
