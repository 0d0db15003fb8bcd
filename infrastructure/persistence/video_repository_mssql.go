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

// VideoRepositoryMSSQL is a SQL Server implementation of IVideoRecord using
// database/sql.
type VideoRepositoryMSSQL struct {
	db *sql.DB
}

func NewVideoRepositoryMSSQL(db *sql.DB) repository.IVideoRecord {
	return &VideoRepositoryMSSQL{db: db}
}

func (r *VideoRepositoryMSSQL) Create(ctx context.Context, record *model.VideoRecord) error {
	if record.DateAdded.IsZero() {
		record.DateAdded = utils.GetCurrentTime()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dbo.[videos] (platform, video_url, video_thumbnail, original_url, date_added) VALUES (@p1, @p2, @p3, @p4, @p5)`,
		record.Platform, record.VideoURL, record.VideoThumbnail, record.OriginalURL, record.DateAdded)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":    err,
			"platform": record.Platform,
		}).Error("mssql: insert video record failed")
	}
	return err
}

func (r *VideoRepositoryMSSQL) List(ctx context.Context, limit int64) ([]model.VideoRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT TOP (@p1) id, platform, video_url, video_thumbnail, original_url, date_added FROM dbo.[videos] ORDER BY date_added DESC`, limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: list video records failed")
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

func (r *VideoRepositoryMSSQL) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dbo.[videos]`).Scan(&n); err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: count video records failed")
		return 0, err
	}
	return n, nil
}

// EnsureVideoSchemaMSSQL creates the videos table in MSSQL when missing.
func EnsureVideoSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q := `IF OBJECT_ID('dbo.videos', 'U') IS NULL
	BEGIN
		CREATE TABLE dbo.[videos] (
			id BIGINT IDENTITY(1,1) PRIMARY KEY,
			platform NVARCHAR(64) NOT NULL,
			video_url NVARCHAR(2048) NOT NULL,
			video_thumbnail NVARCHAR(2048) NULL,
			original_url NVARCHAR(2048) NOT NULL,
			date_added DATETIME2 NOT NULL DEFAULT SYSDATETIME()
		)
	END`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensuring videos schema failed: %w", err)
	}
	return nil
}
