package persistence

import (
	"context"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/domain/repository"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
	"github.com/FatihZee/tele-bot/infrastructure/utils"

	"gorm.io/gorm"
)

// VideoRepositoryMySQL is the gorm-backed MySQL implementation of IVideoRecord.
type VideoRepositoryMySQL struct {
	db *gorm.DB
}

func NewVideoRepositoryMySQL(db *gorm.DB) repository.IVideoRecord {
	return &VideoRepositoryMySQL{db: db}
}

func (r *VideoRepositoryMySQL) Create(ctx context.Context, record *model.VideoRecord) error {
	if record.DateAdded.IsZero() {
		record.DateAdded = utils.GetCurrentTime()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.GetLogger().WithField("error", err).Error("mysql: insert video record failed")
		return err
	}
	return nil
}

func (r *VideoRepositoryMySQL) List(ctx context.Context, limit int64) ([]model.VideoRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var records []model.VideoRecord
	err := r.db.WithContext(ctx).
		Order("date_added DESC").
		Limit(int(limit)).
		Find(&records).Error
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mysql: list video records failed")
		return nil, err
	}
	return records, nil
}

func (r *VideoRepositoryMySQL) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.VideoRecord{}).Count(&n).Error; err != nil {
		logger.GetLogger().WithField("error", err).Error("mysql: count video records failed")
		return 0, err
	}
	return n, nil
}
