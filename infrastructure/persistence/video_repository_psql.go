package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/domain/repository"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
	"github.com/FatihZee/tele-bot/infrastructure/utils"
)

// defaultListLimit bounds admin listings when no limit is requested.
const defaultListLimit = 50

// VideoRepositoryPsql is the PostgreSQL implementation of IVideoRecord.
type VideoRepositoryPsql struct {
	db *sql.DB
}

func NewVideoRepositoryPsql(db *sql.DB) repository.IVideoRecord {
	return &VideoRepositoryPsql{db: db}
}

func (r *VideoRepositoryPsql) Create(ctx context.Context, record *model.VideoRecord) error {
	if record.DateAdded.IsZero() {
		record.DateAdded = utils.GetCurrentTime()
	}
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO videos (platform, video_url, video_thumbnail, original_url, date_added) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("psql: prepare insert video record failed")
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, record.Platform, record.VideoURL, record.VideoThumbnail, record.OriginalURL, record.DateAdded); err != nil {
		logger.GetLogger().WithField("error", err).Error("psql: insert video record failed")
		return err
	}
	return nil
}

func (r *VideoRepositoryPsql) List(ctx context.Context, limit int64) ([]model.VideoRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	stmt, err := r.db.PrepareContext(ctx, `SELECT id, platform, video_url, video_thumbnail, original_url, date_added FROM videos ORDER BY date_added DESC LIMIT $1`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("psql: prepare list video records failed")
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("psql: list video records failed")
		return nil, err
	}
	defer rows.Close()

	var records []model.VideoRecord
	for rows.Next() {
		var record model.VideoRecord
		if err := rows.Scan(&record.ID, &record.Platform, &record.VideoURL, &record.VideoThumbnail, &record.OriginalURL, &record.DateAdded); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *VideoRepositoryPsql) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n); err != nil {
		logger.GetLogger().WithField("error", err).Error("psql: count video records failed")
		return 0, err
	}
	return n, nil
}

// EnsureVideoSchema creates the videos table when missing. Safe to call at
// startup.
func EnsureVideoSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			id BIGSERIAL PRIMARY KEY,
			platform TEXT NOT NULL,
			video_url TEXT NOT NULL,
			video_thumbnail TEXT,
			original_url TEXT NOT NULL,
			date_added TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_date_added ON videos (date_added)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_platform ON videos (platform)`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensuring videos schema failed: %w", err)
		}
	}
	return nil
}
