package repository

import (
	"context"

	"github.com/FatihZee/tele-bot/domain/model"
)

// IVideoRecord persists one record per successful extraction. Records are
// write-once; List and Count only serve the admin API.
type IVideoRecord interface {
	Create(ctx context.Context, record *model.VideoRecord) error
	List(ctx context.Context, limit int64) ([]model.VideoRecord, error)
	Count(ctx context.Context) (int64, error)
}
