package persistence

import (
	"context"
	"fmt"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/domain/repository"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
	"github.com/FatihZee/tele-bot/infrastructure/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// VideoRepository is the Mongo implementation of IVideoRecord and the
// default store.
type VideoRepository struct {
	client *mongo.Client
	dbName string
}

func NewVideoRepository(client *mongo.Client, dbName string) repository.IVideoRecord {
	return &VideoRepository{client: client, dbName: dbName}
}

func (r *VideoRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(model.VideoRecord{}.TableName())
}

func (r *VideoRepository) Create(ctx context.Context, record *model.VideoRecord) error {
	if record.DateAdded.IsZero() {
		record.DateAdded = utils.GetCurrentTime()
	}
	if _, err := r.collection().InsertOne(ctx, record); err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: insert video record failed")
		return fmt.Errorf("failed to insert video record: %w", err)
	}
	return nil
}

func (r *VideoRepository) List(ctx context.Context, limit int64) ([]model.VideoRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date_added", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: list video records failed")
		return nil, fmt.Errorf("failed to list video records: %w", err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)

	var records []model.VideoRecord
	for cursor.Next(ctx) {
		var record model.VideoRecord
		if err := cursor.Decode(&record); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while decoding video record")
			continue
		}
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate video records: %w", err)
	}
	return records, nil
}

func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection().CountDocuments(ctx, bson.D{})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mongo: count video records failed")
		return 0, fmt.Errorf("failed to count video records: %w", err)
	}
	return n, nil
}
